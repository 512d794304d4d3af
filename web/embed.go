// Package web carries the page templates and stylesheet compiled into the
// inventory binary.
package web

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed static templates
var content embed.FS

// Static returns the assets served under /static/.
func Static() fs.FS { return mustSub("static") }

// Templates returns the page templates.
func Templates() fs.FS { return mustSub("templates") }

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(content, dir)
	if err != nil {
		panic(fmt.Sprintf("web: embedded %s directory: %v", dir, err))
	}
	return sub
}
