package scoremigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Adding point_events indices...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_point_events_receiver
					ON point_events (guild_id, receiver_id, created_at DESC);
			`); err != nil {
				return fmt.Errorf("failed to add receiver index to point_events: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_point_events_created_at
					ON point_events (created_at);
			`); err != nil {
				return fmt.Errorf("failed to add created_at index to point_events: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Rolling back point_events indices...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, idx := range []string{"idx_point_events_receiver", "idx_point_events_created_at"} {
				if _, err := tx.ExecContext(ctx, "DROP INDEX IF EXISTS "+idx); err != nil {
					return fmt.Errorf("failed to drop %s: %w", idx, err)
				}
			}
			return nil
		})
	})
}
