// Package migrations holds the Postgres schema as bun migrations with embedded SQL.
package migrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()
