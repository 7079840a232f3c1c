// Package scripts embeds the versioned MySQL migrations run by goose.
package scripts

import "embed"

//go:embed *.sql
var FS embed.FS
