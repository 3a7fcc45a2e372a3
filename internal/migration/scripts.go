package migration

import (
	"embed"
	"io/fs"
)

//go:embed scripts/*.sql
var embeddedScripts embed.FS

// Scripts is the production script filesystem rooted at the script files
// themselves.
func Scripts() fs.FS {
	sub, err := fs.Sub(embeddedScripts, "scripts")
	if err != nil {
		// embed guarantees the directory exists
		panic(err)
	}
	return sub
}
