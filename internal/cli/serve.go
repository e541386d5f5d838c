package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/habittracker/internal/handler"
	"github.com/habittracker/internal/router"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API, the HTML report and Prometheus metrics",
		Long: `Start the HTTP server.

Routes:
  GET    /ping, /metrics, /report
  GET    /api/habits                     POST /api/habits
  GET    /api/habits/:name               DELETE /api/habits/:name
  GET    /api/habits/:name/checkoffs     POST /api/habits/:name/checkoffs
  GET    /api/habits/:name/periods
  GET    /api/habits/:name/summary
  GET    /api/stats/longest-streak
  GET    /api/stats/resets`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = app.cfg.Server.Addr
			}
			return app.serve(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func (a *App) serve(ctx context.Context, addr string) error {
	gin.SetMode(a.cfg.Server.GinMode)

	api := handler.NewAPI(a.gdb, a.logger, a.clock, a.cfg.Shell.Language)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router.SetupRouter(api, a.logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to run server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	a.logger.Info("HTTP server stopped")
	return nil
}
