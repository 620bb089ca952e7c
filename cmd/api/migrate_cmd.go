package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/campus-kit/helpdesk/internal/config"
	"github.com/campus-kit/helpdesk/internal/observability"
	"github.com/campus-kit/helpdesk/internal/persistence"
)

func newMigrateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply SQL migrations to the configured Postgres database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.Postgres.DSN == "" {
				return errors.New("POSTGRES_DSN is required for migrate")
			}
			logger, err := observability.NewLogger(cfg.Logger)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logger.Sync() //nolint:errcheck

			pg, err := persistence.NewPostgres(cmd.Context(), cfg.Postgres, logger)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer pg.Close()

			if dir == "" {
				dir = cfg.Postgres.MigrationsDir
			}
			return persistence.RunMigrations(cmd.Context(), pg.PoolHandle(), dir, logger)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Migrations directory (defaults to POSTGRES_MIGRATIONS_DIR)")
	return cmd
}
