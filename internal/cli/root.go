// Package cli wires configuration, logging and the showcase components into
// cobra commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"showcase/internal/config"
	"showcase/internal/logs"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// app is the state shared by all commands once the root pre-run has loaded
// configuration.
type app struct {
	flags config.CLIFlags
	cfg   *config.Config
}

// NewRootCmd builds the showcase command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "showcase",
		Short: "Project gallery manifest generator and viewers",
		Long: `showcase scans a site root for project directories, merges sidecar
metadata and version-control history, and writes the data.json manifest the
gallery front end reads. It also ships terminal viewers for the gallery and a
notifications demo, and a static server for the site root.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logs.Close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.ConfigPath, "config", "", "Config file (default ~/.config/showcase/config.yaml)")
	pf.StringVarP(&a.flags.Root, "root", "r", "", "Site root containing project directories")
	pf.StringVar(&a.flags.LogDir, "log-dir", "", "Directory for debug.log (logging disabled when empty)")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newManifestCmd(a),
		newGalleryCmd(a),
		newNotificationsCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup() error {
	if err := config.LoadDotenv(""); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env: %v\n", err)
	}

	cfg, err := config.Load(a.flags)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	if err := logs.Initialize(cfg.LogDir, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not initialize logger: %v\n", err)
	}
	return nil
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// relPath renders p relative to the working directory when possible.
func relPath(p string) string {
	wd, err := os.Getwd()
	if err != nil {
		return p
	}
	return relTo(wd, p)
}

// relTo renders p relative to base, or p itself when that is not possible.
func relTo(base, p string) string {
	rel, err := filepath.Rel(base, p)
	if err != nil {
		return p
	}
	return filepath.ToSlash(rel)
}
