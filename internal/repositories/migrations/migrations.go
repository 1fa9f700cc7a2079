// Package migrations holds the schema migrations for the worker's tables.
package migrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()
