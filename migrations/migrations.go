// Package migrations embeds the SQL schema migrations for every supported database driver.
package migrations

import "embed"

// FS holds one directory of goose migrations per driver ("postgres", "sqlite").
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
