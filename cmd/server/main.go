// Package main implements the entry point for the task list API server,
// which serves registration, login and owner-scoped task CRUD over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/tasklist-api/internal/config"
	"github.com/phrazzld/tasklist-api/internal/platform/logger"
	"github.com/phrazzld/tasklist-api/internal/redact"
)

// cliFlags holds the parsed command-line flags.
type cliFlags struct {
	migrate string
	name    string
}

func parseFlags(args []string) (cliFlags, error) {
	var f cliFlags
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&f.migrate, "migrate", "", "Run a database migration command (up|down|reset|status|version|create) and exit")
	fs.StringVar(&f.name, "name", "", "Name for the new migration file (used with -migrate=create)")
	if err := fs.Parse(args); err != nil {
		return cliFlags{}, err
	}
	if f.migrate == "create" && f.name == "" {
		return cliFlags{}, fmt.Errorf("-name is required with -migrate=create")
	}
	return f, nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("server exited with error", slog.String("error", redact.Error(err)))
		os.Exit(1)
	}
}

func run(args []string) error {
	flags, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("auto_migrate", cfg.Database.AutoMigrate))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}

	if flags.migrate != "" {
		defer func() { _ = db.Close() }()
		return handleMigrations(ctx, db, log, flags.migrate, flags.name)
	}

	if cfg.Database.AutoMigrate {
		if err := handleMigrations(ctx, db, log, "up", ""); err != nil {
			_ = db.Close()
			return err
		}
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
