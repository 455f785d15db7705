// Package migrations embeds the SQL migrations applied on startup.
package migrations

import "embed"

// SQLite holds the migrations for the SQLite credential store.
//
//go:embed sqlite/*.sql
var SQLite embed.FS
