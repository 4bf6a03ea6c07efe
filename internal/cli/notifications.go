package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"showcase/internal/logs"
	"showcase/internal/notify"
	tuinotify "showcase/internal/tui/notifications"
)

func newNotificationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notify"},
		Short:   "Interactive notifications list with read/unread state",
		Long: `Load notifications from a YAML seed file (or the built-in Chess Club
seed) and browse them. Read state lives in memory for the session only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items := notify.DefaultItems()
			if a.cfg.SeedFile != "" {
				loaded, err := notify.LoadItems(a.cfg.SeedFile)
				if err != nil {
					return err
				}
				items = loaded
			}

			store, err := notify.NewStore(items, notify.WithLogger(logs.Named("notify")))
			if err != nil {
				return err
			}

			m := tuinotify.New(store, items)
			defer m.Close()

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run notifications: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&a.flags.SeedFile, "seed", "", "YAML seed file")
	return cmd
}
