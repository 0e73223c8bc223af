// Package migrations embebe las migraciones SQL versionadas del esquema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
