package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"showcase/internal/history"
	"showcase/internal/logs"
	"showcase/internal/manifest"
	"showcase/internal/meta"
	"showcase/internal/scanner"
)

func newManifestCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Generate data.json for the site root",
		Long: `Scan the site root for project directories, resolve tags from the
metadata sidecar and timestamps from version control (falling back to the
filesystem), inject external projects and write the manifest.

Examples:
  # Regenerate data.json in the current directory
  showcase manifest

  # Use the go-git backend and a custom output
  showcase manifest --root ./site --vcs go-git --output projects.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			logger := logs.Named("manifest")

			gen := &manifest.Generator{
				Root:   cfg.Root,
				Output: cfg.OutputPath(),
				Scan: scanner.Options{
					EntryFile: cfg.EntryFile,
					DirSuffix: cfg.DirSuffix,
				},
				Sidecar:    meta.LoadOrEmpty(cfg.MetaPath(), logger),
				Resolver:   history.ForMode(cfg.VCS, cfg.Root, cfg.GitTimeout, logs.Named("history")),
				DefaultTag: cfg.DefaultTag,
				Logger:     logger,
			}

			n, err := gen.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d projects to %s\n", n, relTo(cfg.Root, cfg.OutputPath()))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&a.flags.Output, "output", "o", "", "Manifest output path, relative to the root")
	f.StringVar(&a.flags.MetaFile, "meta", "", "Metadata sidecar path, relative to the root")
	f.StringVar(&a.flags.VCS, "vcs", "", "Timestamp source: auto, git, go-git, none")
	f.DurationVar(&a.flags.GitTimeout, "git-timeout", 0, "Timeout per git invocation")
	return cmd
}
