package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/flickpick/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database and runs migrations.
//
// A missing config file is created from the embedded template first.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	status, err := shared.GetMigrationStatus(db)
	if err != nil {
		return err
	}

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	r.writePlain("✓ Database ready at %s (schema version %d)\n", config.Database.Path, status.Current)
	if !config.HasTMDBCredentials() {
		r.writePlain("Next: set credentials.tmdb.api_key in %s (or export TMDB_API_KEY)\n", configPath)
	}
	return nil
}

// SetupStatus prints the migration state of the configured database.
func (r *Runner) SetupStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	status, err := shared.GetMigrationStatus(r.db)
	if err != nil {
		return err
	}

	r.writePlainHeader("Migrations")
	r.writePlain("Current version: %d\n", status.Current)
	r.writePlain("Applied: %d\n", status.Applied)
	r.writePlain("Pending: %d\n", status.Pending)
	return nil
}

// SetupRollback reverts the most recently applied migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	if err := shared.RollbackMigration(r.db); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}

	return r.writePlain("✓ Rolled back latest migration\n")
}
