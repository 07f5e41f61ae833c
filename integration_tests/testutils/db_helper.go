package testutils

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// ledgerTables lists every table the migrations create, children first.
var ledgerTables = []string{
	"point_events",
	"member_category_scores",
	"member_scores",
	"guild_configs",
}

// TruncateTables empties the ledger and config tables.
func TruncateTables(ctx context.Context, db bun.IDB) error {
	for _, table := range ledgerTables {
		if _, err := db.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

// CountRows returns the number of rows in table.
func CountRows(ctx context.Context, db bun.IDB, table string) (int, error) {
	return db.NewSelect().TableExpr(table).Count(ctx)
}
