// Package appfs embeds the files the binaries need at runtime:
// SQL migrations, HTML page & email templates and static assets.
package appfs

import "embed"

//go:embed migrations/*.sql all:templates assets
var FS embed.FS
