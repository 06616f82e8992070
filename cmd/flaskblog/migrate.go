// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Flask-Blog Contributors

package main

import (
	"fmt"
	"strconv"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/thomasdurkin/Flask-Blog/internal/config"
	"github.com/thomasdurkin/Flask-Blog/internal/store"
)

// newMigrateCmd creates the migrate subcommand.
func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply all pending database migrations against the PostgreSQL database.`,
		RunE:  runMigrateUp,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		RunE:  runMigrateDown,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "force <version>",
		Short: "Force the schema version without running migrations",
		Long: `Force the recorded schema version and clear the dirty flag. Use this
to recover after a failed migration, once the database has been repaired by hand.`,
		Args: cobra.ExactArgs(1),
		RunE: runMigrateForce,
	})

	return cmd
}

// openMigrator loads config and builds a migrator for the configured database.
func openMigrator() (*store.Migrator, error) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, oops.Code("CONFIG_INVALID").Errorf("database_url is required")
	}
	return store.NewMigrator(cfg.DatabaseURL)
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	migrator, err := openMigrator()
	if err != nil {
		return err
	}
	defer closeMigrator(cmd, migrator)

	pending, err := migrator.PendingMigrations()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		cmd.Println("Database schema is up to date")
		return nil
	}

	for _, version := range pending {
		cmd.Printf("Applying %s...\n", migrationLabel(version))
	}
	if err := migrator.Up(); err != nil {
		return err
	}

	cmd.Println("Migrations completed successfully")
	return nil
}

func runMigrateDown(cmd *cobra.Command, _ []string) error {
	migrator, err := openMigrator()
	if err != nil {
		return err
	}
	defer closeMigrator(cmd, migrator)

	cmd.Println("Rolling back all migrations...")
	if err := migrator.Down(); err != nil {
		return err
	}

	cmd.Println("Rollback completed successfully")
	return nil
}

func runMigrateForce(cmd *cobra.Command, args []string) error {
	version, err := strconv.Atoi(args[0])
	if err != nil {
		return oops.Code("INVALID_VERSION").
			With("version", args[0]).
			Wrap(err)
	}

	migrator, err := openMigrator()
	if err != nil {
		return err
	}
	defer closeMigrator(cmd, migrator)

	if err := migrator.Force(version); err != nil {
		return err
	}

	cmd.Printf("Schema version forced to %d\n", version)
	return nil
}

// migrationLabel resolves a migration version to its file name, falling back
// to the zero-padded version when the name cannot be resolved.
func migrationLabel(version uint) string {
	name, err := store.MigrationName(version)
	if err != nil || name == "" {
		return fmt.Sprintf("%06d", version)
	}
	return name
}

func closeMigrator(cmd *cobra.Command, migrator *store.Migrator) {
	if err := migrator.Close(); err != nil {
		cmd.PrintErrf("warning: error closing migrator: %v\n", err)
	}
}
