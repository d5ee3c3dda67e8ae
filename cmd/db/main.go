package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robalyx/fotowettbewerb/cmd/db/commands"
	"github.com/robalyx/fotowettbewerb/internal/database"
	"github.com/robalyx/fotowettbewerb/internal/database/migrations"
	"github.com/robalyx/fotowettbewerb/internal/database/service"
	"github.com/robalyx/fotowettbewerb/internal/setup/config"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := setupDependencies(ctx)
	if err != nil {
		return fmt.Errorf("failed to setup dependencies: %w", err)
	}
	defer deps.DB.Close()

	app := &cli.Command{
		Name:     "db",
		Usage:    "Database management tool",
		Commands: append(commands.MigrationCommands(deps), commands.MaintenanceCommands(deps)...),
	}

	return app.Run(ctx, os.Args)
}

// setupDependencies connects to the database without migrating and prepares the migrator.
func setupDependencies(ctx context.Context) (*commands.CLIDependencies, error) {
	cfg, _, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.NewConnection(ctx, &cfg.Common.PostgreSQL, service.Options{}, logger, false)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &commands.CLIDependencies{
		DB:       db,
		Migrator: migrate.NewMigrator(db.DB(), migrations.Migrations, migrate.WithMarkAppliedOnSuccess(true)),
		Logger:   logger,
	}, nil
}
