package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"showcase/internal/gallery"
	"showcase/internal/logs"
	tuigallery "showcase/internal/tui/gallery"
)

func newGalleryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Browse the project manifest in the terminal",
		Long: `Open the manifest (a file path or http(s) URL, default <root>/data.json)
in an interactive list with fuzzy search over project names and tags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logs.Named("gallery")
			m := tuigallery.New(a.cfg.ManifestSource(), tuigallery.WithLogger(logger))

			logs.Logger.Infow("starting gallery", "source", a.cfg.ManifestSource())
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run gallery: %w", err)
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVarP(&a.flags.Manifest, "manifest", "m", "", "Manifest path or URL")
	cmd.AddCommand(newGalleryExportCmd(a))
	return cmd
}

func newGalleryExportCmd(a *app) *cobra.Command {
	var (
		out   string
		title string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the manifest as a static HTML page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := gallery.Load(cmd.Context(), a.cfg.ManifestSource(), nil)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}
			if err := gallery.Export(w, projects, title); err != nil {
				return err
			}
			if out != "" && out != "-" {
				cmd.PrintErrf("Exported %d projects to %s\n", len(projects), relPath(out))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "Output file, - for stdout")
	cmd.Flags().StringVar(&title, "title", "Projects", "Page title")
	return cmd
}
