package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/user-management-console/internal/auth"
	"github.com/user-management-console/internal/config"
	"github.com/user-management-console/internal/repository"
	"github.com/user-management-console/internal/service"
	"github.com/user-management-console/internal/store"
	"github.com/user-management-console/pkg/logger"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "console",
		Short:         "User management console over flat CSV tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newAddUserCommand())
	cmd.AddCommand(newUsersCommand())
	return cmd
}

// app holds everything the commands share
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	store    *store.Store
	services *service.Services
}

// bootstrap loads configuration and wires storage and services
func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	st, err := store.New(cfg.Storage.DataDir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open data directory: %w", err)
	}

	hasher, err := auth.NewHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}

	repos := repository.New(st, cfg.Storage.UserTable, cfg.Storage.UploadTable)

	return &app{
		cfg:      cfg,
		log:      log,
		store:    st,
		services: service.NewServices(repos, hasher, cfg, log),
	}, nil
}
