// Package migrations embeds the database schema and stored procedures the
// Supabase store expects.
package migrations

import "embed"

// FS holds the goose SQL migrations.
//
//go:embed *.sql
var FS embed.FS
