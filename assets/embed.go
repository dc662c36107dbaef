package assets

import (
	"embed"
	"io/fs"
)

//go:embed moves.json sql/*.sql
var FS embed.FS

// MovesJSON returns the raw move catalog document.
func MovesJSON() ([]byte, error) {
	return FS.ReadFile("moves.json")
}

// Migrations returns the SQL bootstrap scripts rooted at "sql".
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		// "sql" is embedded above; Sub only fails on an invalid path.
		panic(err)
	}
	return sub
}
