// Package migrations embeds the SQLite schema migrations of the station's
// local database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
