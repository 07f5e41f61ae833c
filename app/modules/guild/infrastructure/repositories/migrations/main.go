package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the guild module's schema migrations.
var Migrations = migrate.NewMigrations()
