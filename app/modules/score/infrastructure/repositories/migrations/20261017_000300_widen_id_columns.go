package scoremigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

var idColumns = map[string][]string{
	"member_scores":          {"guild_id", "member_id"},
	"member_category_scores": {"guild_id", "member_id"},
	"point_events":           {"guild_id", "sender_id", "receiver_id"},
}

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Widening score id columns...")
		return alterIDColumns(ctx, db, "varchar(64)")
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Narrowing score id columns...")
		return alterIDColumns(ctx, db, "varchar(20)")
	})
}

func alterIDColumns(ctx context.Context, db *bun.DB, typ string) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, table := range []string{"member_scores", "member_category_scores", "point_events"} {
			for _, col := range idColumns[table] {
				if _, err := tx.ExecContext(ctx, "ALTER TABLE ? ALTER COLUMN ? TYPE "+typ, bun.Ident(table), bun.Ident(col)); err != nil {
					return fmt.Errorf("failed to alter %s.%s: %w", table, col, err)
				}
			}
		}
		return nil
	})
}
