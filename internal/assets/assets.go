// Package assets embeds the static browser shell served by the simgraph
// server. The shell is deliberately thin: it draws what the patch stream
// says and reports pointer events back; every layout decision stays in Go.
package assets

import _ "embed"

// ShellHTML is the single-page canvas shell.
//
//go:embed shell.html
var ShellHTML []byte
