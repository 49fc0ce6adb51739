// Package migrations embeds the goose migrations that create the tables the
// Postgres directory loader reads from.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
