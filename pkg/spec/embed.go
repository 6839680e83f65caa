package spec

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.json templates/*.yaml
var embeddedTemplates embed.FS

// EmbeddedFS exposes the built-in template specs.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}
