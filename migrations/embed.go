// AngelaMos | 2026
// embed.go

// Package migrations embeds the schema so the binary can apply it on boot.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
