package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Widening guild_configs id columns...")
			return alterGuildIDColumns(ctx, db, "varchar(64)")
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Narrowing guild_configs id columns...")
			return alterGuildIDColumns(ctx, db, "varchar(20)")
		},
	)
}

func alterGuildIDColumns(ctx context.Context, db *bun.DB, typ string) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, col := range []string{"guild_id", "admin_role_id", "judge_role_id"} {
			if _, err := tx.ExecContext(ctx, "ALTER TABLE guild_configs ALTER COLUMN ? TYPE "+typ, bun.Ident(col)); err != nil {
				return fmt.Errorf("failed to alter guild_configs.%s: %w", col, err)
			}
		}
		return nil
	})
}
