// Package migrations embeds the versioned schema migrations applied by
// the migrate command.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
