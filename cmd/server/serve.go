package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/user-management-console/internal/api"
	"github.com/user-management-console/internal/auth"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	a, err := bootstrap()
	if err != nil {
		return err
	}
	log := a.log
	log.Info().Msg("Starting user management console...")

	if a.cfg.Auth.SessionSecret == "" {
		log.Warn().Msg("SESSION_SECRET not set, sessions will not survive a restart")
	}
	tokens, err := auth.NewTokens(a.cfg.Auth.SessionSecret)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// Warm the roster so a malformed table is reported at startup
	if err := a.services.Directory.Reload(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to load roster")
	}

	if a.cfg.Storage.WatchTables {
		startWatchers(ctx, a)
	}

	// Initialize router
	router := api.NewRouter(a.services, a.store, tokens, a.cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + a.cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", a.cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		log.Error().Err(err).Msg("Server failed")
		return err
	case <-quit:
	case <-parent.Done():
	}
	log.Info().Msg("Shutting down server...")

	// Stop table watchers
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}

	log.Info().Msg("Server exited gracefully")
	return nil
}

// startWatchers reloads each table when another process rewrites it
func startWatchers(ctx context.Context, a *app) {
	watch := func(table string, reload func(context.Context) error) {
		go func() {
			err := a.store.Watch(ctx, table, func() {
				if err := reload(ctx); err != nil {
					a.log.Error().Err(err).Str("table", table).Msg("Failed to reload table")
				}
			})
			if err != nil {
				a.log.Error().Err(err).Str("table", table).Msg("Table watcher failed")
			}
		}()
	}

	watch(a.cfg.Storage.UserTable, a.services.Directory.Reload)
	watch(a.cfg.Storage.UploadTable, a.services.Upload.Reload)
}
