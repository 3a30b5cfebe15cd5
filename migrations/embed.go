// Package migrations embeds the Postgres schema for the booked-list store.
package migrations

import "embed"

// FS holds the up/down migration files.
//
//go:embed *.sql
var FS embed.FS
