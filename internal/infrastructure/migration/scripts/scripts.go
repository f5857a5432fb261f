// Package scripts embeds the versioned SQL migrations so the binary carries
// its own schema.
package scripts

import "embed"

// Goose holds goose-format migrations under goose/.
//
//go:embed goose/*.sql
var Goose embed.FS

// Migrate holds golang-migrate up/down pairs under migrate/.
//
//go:embed migrate/*.sql
var Migrate embed.FS

const (
	GooseDir   = "goose"
	MigrateDir = "migrate"
)
