package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"sensoringest/internal/handlers"
	"sensoringest/internal/server"
)

const shutdownTimeout = 10 * time.Second

func (a *app) serveCommand() *cobra.Command {
	var (
		port         string
		writeTimeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API: certification endpoints, the run history, the live
run feed on /ws, Prometheus metrics on /metrics and Swagger UI on /swagger/index.html.`,
		Example: `  sensoringest serve --port 9090`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port == "" {
				port = a.cfg.Application.Port
			}
			return a.runServe(cmd.Context(), port, writeTimeout)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (default from config)")
	cmd.Flags().DurationVar(&writeTimeout, "write-timeout", 0, "response write timeout (default 2m)")
	return cmd
}

func (a *app) runServe(ctx context.Context, port string, writeTimeout time.Duration) error {
	rt, err := a.wire()
	if err != nil {
		return err
	}
	defer rt.close(a.log)

	apiHandler := handlers.NewHandler(rt.services, a.log.Named("http"), handlers.Options{
		Metrics:        rt.metrics.Handler(),
		MaxUploadBytes: a.cfg.Application.MaxUploadBytes,
	})

	srv := &server.Server{WriteTimeout: writeTimeout}
	errCh := make(chan error, 1)
	go func() {
		a.log.Infow("server_starting", "port", port)
		if err := srv.Run(port, apiHandler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Infow("shutting down server...")

	// allow in-flight requests to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Errorw("server forced to shutdown", "err", err)
		return err
	}
	return nil
}
