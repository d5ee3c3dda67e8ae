package commands

import (
	"context"

	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// MigrationCommands returns all migration-related commands.
func MigrationCommands(deps *CLIDependencies) []*cli.Command {
	return []*cli.Command{
		{
			Name:   "init",
			Usage:  "Initialize migration tables",
			Action: handleInit(deps),
		},
		{
			Name:  "migrate",
			Usage: "Run pending migrations",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "dry-run", Usage: "List pending migrations without applying them"},
			},
			Action: handleMigrate(deps),
		},
		{
			Name:   "rollback",
			Usage:  "Rollback the last migration group",
			Action: handleRollback(deps),
		},
		{
			Name:   "status",
			Usage:  "Show migration status",
			Action: handleStatus(deps),
		},
		{
			Name:      "create",
			Usage:     "Create a new Go migration file",
			ArgsUsage: "NAME",
			Action:    handleCreate(deps),
		},
	}
}

func handleInit(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		return deps.Migrator.Init(ctx)
	}
}

// handleMigrate creates the migration tables if needed and applies pending groups.
// With --dry-run it only reports which migrations would run.
func handleMigrate(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if err := deps.Migrator.Init(ctx); err != nil {
			return err
		}

		if c.Bool("dry-run") {
			ms, err := deps.Migrator.MigrationsWithStatus(ctx)
			if err != nil {
				return err
			}

			pending := migrationNames(ms.Unapplied())
			deps.Logger.Info("Pending migrations",
				zap.Int("count", len(pending)),
				zap.Strings("names", pending),
			)
			return nil
		}

		if err := deps.Migrator.Lock(ctx); err != nil {
			return err
		}
		defer deps.Migrator.Unlock(ctx) //nolint:errcheck // -

		group, err := deps.Migrator.Migrate(ctx)
		if err != nil {
			return err
		}

		if group.IsZero() {
			deps.Logger.Info("Contest schema is up to date")
			return nil
		}

		deps.Logger.Info("Applied contest migrations",
			zap.Int64("group", group.ID),
			zap.Strings("names", migrationNames(group.Migrations)),
		)
		return nil
	}
}

func handleRollback(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		if err := deps.Migrator.Lock(ctx); err != nil {
			return err
		}
		defer deps.Migrator.Unlock(ctx) //nolint:errcheck // -

		group, err := deps.Migrator.Rollback(ctx)
		if err != nil {
			return err
		}

		if group.IsZero() {
			deps.Logger.Info("Nothing to roll back")
			return nil
		}

		deps.Logger.Warn("Rolled back contest migrations",
			zap.Int64("group", group.ID),
			zap.Strings("names", migrationNames(group.Migrations)),
		)
		return nil
	}
}

// handleStatus logs one line per known migration followed by a summary.
func handleStatus(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		ms, err := deps.Migrator.MigrationsWithStatus(ctx)
		if err != nil {
			return err
		}

		for _, m := range ms {
			fields := []zap.Field{
				zap.String("name", m.Name),
				zap.Bool("applied", m.IsApplied()),
			}
			if m.IsApplied() {
				fields = append(fields,
					zap.Int64("group", m.GroupID),
					zap.Time("migrated_at", m.MigratedAt),
				)
			}
			deps.Logger.Info("Migration", fields...)
		}

		pending := ms.Unapplied()
		deps.Logger.Info("Migration status",
			zap.Int("total", len(ms)),
			zap.Int("pending", len(pending)),
			zap.Strings("pending_names", migrationNames(pending)),
			zap.Int64("last_group", ms.LastGroupID()),
		)
		return nil
	}
}

func handleCreate(deps *CLIDependencies) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() != 1 {
			return ErrNameRequired
		}

		mf, err := deps.Migrator.CreateGoMigration(ctx, c.Args().First())
		if err != nil {
			return err
		}

		deps.Logger.Info("Created Go migration",
			zap.String("name", mf.Name),
			zap.String("path", mf.Path),
		)
		return nil
	}
}

func migrationNames(ms migrate.MigrationSlice) []string {
	names := make([]string, 0, len(ms))
	for _, m := range ms {
		names = append(names, m.Name)
	}
	return names
}
