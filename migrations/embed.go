// Package migrations содержит SQL миграции базы истории запусков.
package migrations

import "embed"

//go:embed postgres/*.sql
var PostgresMigrations embed.FS
