package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github-app-ingestor/internal/config"
)

func newMigrateCommand(logger *slog.Logger, logLevel *slog.LevelVar) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			setLogLevel(cfg.LogLevel, logLevel)
			if cfg.DBURL == "" {
				return errors.New("DB_URL is a required configuration field")
			}

			switch args[0] {
			case "up":
				err = migrateUp(cfg.MigrationsPath, cfg.DBURL)
			case "down":
				err = migrateDown(cfg.MigrationsPath, cfg.DBURL)
			}
			if err != nil {
				return fmt.Errorf("migrate %s: %w", args[0], err)
			}
			logger.Info("Database migrations finished", "direction", args[0])
			return nil
		},
	}
}

func migrateUp(sourceURL, dbURL string) error {
	m, err := migrate.New(sourceURL, dbURL)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func migrateDown(sourceURL, dbURL string) error {
	m, err := migrate.New(sourceURL, dbURL)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
