package migrations

import (
	"context"
	"fmt"

	guilddb "github.com/Black-And-White-Club/score-bot/app/modules/guild/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Creating guild_configs table...")
			if _, err := db.NewCreateTable().Model((*guilddb.GroupConfig)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create guild_configs table: %w", err)
			}
			fmt.Println("guild_configs table created successfully!")
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Dropping guild_configs table...")
			if _, err := db.NewDropTable().Model((*guilddb.GroupConfig)(nil)).IfExists().Cascade().Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop guild_configs table: %w", err)
			}
			fmt.Println("guild_configs table dropped successfully!")
			return nil
		},
	)
}
