package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"showcase/internal/logs"
	"showcase/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site root over HTTP",
		Long: `Serve the site root as static files. data.json is always sent with
Cache-Control: no-store so a regenerated manifest shows up on reload.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			logger := logs.Named("server")

			srv := &http.Server{
				Addr: cfg.Addr,
				Handler: server.NewRouter(server.Options{
					Root:           cfg.Root,
					ManifestPath:   cfg.OutputPath(),
					AllowedOrigins: cfg.Origins(),
					Logger:         logger,
				}),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", zap.String("addr", cfg.Addr), zap.String("root", cfg.Root))
				errCh <- srv.ListenAndServe()
			}()
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on %s\n", relPath(cfg.Root), cfg.Addr)

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("serve: %w", err)
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&a.flags.Addr, "addr", "", "Listen address")
	return cmd
}
