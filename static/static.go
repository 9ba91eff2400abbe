// Package static embeds the unbuilt asset sources. The server falls back to
// them under /static/ when no build manifest is present, and `irigoyen build`
// reads the same directory.
package static

import "embed"

//go:embed robots.txt favicon.svg css js
var FS embed.FS
