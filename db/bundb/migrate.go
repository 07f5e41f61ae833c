package bundb

import (
	"context"
	"fmt"
	"log/slog"

	guildmigrations "github.com/Black-And-White-Club/score-bot/app/modules/guild/infrastructure/repositories/migrations"
	scoremigrations "github.com/Black-And-White-Club/score-bot/app/modules/score/infrastructure/repositories/migrations"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// ModuleMigrator is a migrator bound to one module's migration set. Each
// module keeps its own bookkeeping tables.
type ModuleMigrator struct {
	Name string
	*migrate.Migrator
}

// Migrators returns the module migrators in dependency order: score tables
// reference guild_configs.
func Migrators(db *bun.DB) []ModuleMigrator {
	return []ModuleMigrator{
		newModuleMigrator(db, "guild", guildmigrations.Migrations),
		newModuleMigrator(db, "score", scoremigrations.Migrations),
	}
}

func newModuleMigrator(db *bun.DB, name string, migrations *migrate.Migrations) ModuleMigrator {
	return ModuleMigrator{
		Name: name,
		Migrator: migrate.NewMigrator(db, migrations,
			migrate.WithTableName(name+"_migrations"),
			migrate.WithLocksTableName(name+"_migration_locks"),
		),
	}
}

// RunMigrations initializes the bookkeeping tables and applies pending
// migrations for every module.
func RunMigrations(ctx context.Context, db *bun.DB, logger *slog.Logger) error {
	for _, m := range Migrators(db) {
		if err := m.Init(ctx); err != nil {
			return fmt.Errorf("init %s migrations: %w", m.Name, err)
		}
		group, err := m.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("migrate %s: %w", m.Name, err)
		}
		if group.IsZero() {
			logger.InfoContext(ctx, "No new migrations", slog.String("module", m.Name))
			continue
		}
		logger.InfoContext(ctx, "Migrated module",
			slog.String("module", m.Name),
			slog.String("group", group.String()),
		)
	}
	return nil
}
