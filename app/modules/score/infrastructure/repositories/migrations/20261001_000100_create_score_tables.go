package scoremigrations

import (
	"context"
	"fmt"

	scoredb "github.com/Black-And-White-Club/score-bot/app/modules/score/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating score tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().
				Model((*scoredb.MemberScore)(nil)).
				IfNotExists().
				ForeignKey(`("guild_id") REFERENCES "guild_configs" ("guild_id") ON DELETE CASCADE`).
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create member_scores table: %w", err)
			}

			if _, err := tx.NewCreateTable().
				Model((*scoredb.CategoryScore)(nil)).
				IfNotExists().
				ForeignKey(`("guild_id", "member_id") REFERENCES "member_scores" ("guild_id", "member_id") ON DELETE CASCADE`).
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create member_category_scores table: %w", err)
			}

			if _, err := tx.NewCreateTable().
				Model((*scoredb.PointEvent)(nil)).
				IfNotExists().
				ForeignKey(`("guild_id") REFERENCES "guild_configs" ("guild_id") ON DELETE CASCADE`).
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create point_events table: %w", err)
			}

			fmt.Println("Score tables created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping score tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			models := []any{
				(*scoredb.PointEvent)(nil),
				(*scoredb.CategoryScore)(nil),
				(*scoredb.MemberScore)(nil),
			}
			for _, m := range models {
				if _, err := tx.NewDropTable().Model(m).IfExists().Cascade().Exec(ctx); err != nil {
					return fmt.Errorf("failed to drop score table: %w", err)
				}
			}
			return nil
		})
	})
}
