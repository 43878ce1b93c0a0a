package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasklist-api/internal/platform/postgres"
)

// validMigrationCommands lists the commands accepted by -migrate.
var validMigrationCommands = map[string]bool{
	"up":      true,
	"down":    true,
	"reset":   true,
	"status":  true,
	"version": true,
	"create":  true,
}

// handleMigrations runs a goose command against the embedded migrations.
// For create, name is the migration name.
func handleMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger, command, name string) error {
	if !validMigrationCommands[command] {
		return fmt.Errorf("unknown migration command: %q", command)
	}

	logger.Info("executing migrations", slog.String("command", command))

	var args []string
	if command == "create" {
		args = append(args, name)
	}

	if err := postgres.RunMigrations(ctx, db, logger, command, args...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if command == "up" {
		version, err := postgres.MigrationVersion(ctx, db)
		if err != nil {
			return err
		}
		logger.Info("database schema is current", slog.Int64("version", version))
	}
	return nil
}
