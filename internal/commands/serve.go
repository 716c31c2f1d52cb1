package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/movingout-dev/movingout/internal/server"
	"github.com/movingout-dev/movingout/internal/snapshot"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the budget engine over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd, opts, func(ctx context.Context, ws *workspace) error {
				ws.logger.SetFormatter(&logrus.JSONFormatter{})
				if listen == "" {
					listen = ws.cfg.Server.Listen
				}

				ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()

				srv := server.New(ws.constants, ws.schema, ws.logger)

				scheduler, err := scheduleRefresh(ctx, ws, srv)
				if err != nil {
					return err
				}
				if scheduler != nil {
					scheduler.Start()
					defer func() { <-scheduler.Stop().Done() }()
				}

				httpServer := &http.Server{
					Addr:         listen,
					Handler:      srv.Router(),
					ReadTimeout:  15 * time.Second,
					WriteTimeout: 15 * time.Second,
					IdleTimeout:  60 * time.Second,
				}

				errCh := make(chan error, 1)
				go func() {
					ws.logger.WithField("addr", listen).Info("server listening")
					errCh <- httpServer.ListenAndServe()
				}()

				select {
				case err := <-errCh:
					if !errors.Is(err, http.ErrServerClosed) {
						return fmt.Errorf("serving: %w", err)
					}
					return nil
				case <-ctx.Done():
				}

				ws.logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					return fmt.Errorf("shutting down: %w", err)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from movingout.yaml)")
	return cmd
}

// scheduleRefresh returns a scheduler that refreshes the snapshot constants
// on the configured cron spec, or nil when refresh is disabled.
func scheduleRefresh(ctx context.Context, ws *workspace, srv *server.Server) (*cron.Cron, error) {
	if !ws.cfg.Refresh.Enabled {
		return nil, nil
	}

	refresher := snapshot.NewRefresher(ws.logger)
	c := cron.New()
	_, err := c.AddFunc(ws.cfg.Refresh.Schedule, func() {
		lines, err := ws.refresh(ctx, refresher, true, true)
		if err != nil {
			ws.logger.WithError(err).Warn("scheduled refresh incomplete")
		}
		srv.SetConstants(ws.constants)
		ws.logger.WithFields(logrus.Fields{
			"updated":           len(lines),
			"constants_version": ws.constants.ConstantsVersion,
		}).Info("scheduled refresh finished")
	})
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", ws.cfg.Refresh.Schedule, err)
	}
	return c, nil
}
