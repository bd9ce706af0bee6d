// Package migrations содержит SQL-миграции схемы, применяемые при старте.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
