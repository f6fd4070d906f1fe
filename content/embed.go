// Package content embeds the Lua game tables shipped with the binary.
package content

import "embed"

// FS holds every .lua file in this directory.
//
//go:embed *.lua
var FS embed.FS
