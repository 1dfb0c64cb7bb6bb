package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"media-catalog/internal/handlers"
	"media-catalog/internal/logging"
	"media-catalog/internal/startup"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only catalog API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			startTime := time.Now()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}

			db, err := openCatalog(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					logging.Warn("failed to close database: %v", err)
				}
			}()

			router := handlers.New(db).NewRouter(cfg.MetricsEnabled)
			startup.LogHTTPRoutes(router)

			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           router,
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       15 * time.Second,
				WriteTimeout:      30 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			sigCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()

			startup.LogServerStarted(startup.ServerConfig{
				Port:            cfg.Port,
				MetricsEnabled:  cfg.MetricsEnabled,
				StartupDuration: time.Since(startTime),
			})

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-sigCtx.Done():
			}

			startup.LogShutdownInitiated("interrupt")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logging.Warn("Server shutdown error: %v", err)
			}
			startup.LogShutdownComplete()
			return nil
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "HTTP port (default $PORT or 8080)")
	return cmd
}
