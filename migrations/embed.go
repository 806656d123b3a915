// Package migrations embeds the goose SQL migrations of the item store.
package migrations

import "embed"

// FS holds every migration file.
//
//go:embed *.sql
var FS embed.FS
