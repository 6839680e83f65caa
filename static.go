package landing

import (
	"embed"
	"io/fs"
)

//go:embed static/sections/*.css static/themes/*.css
var embeddedStatic embed.FS

// StaticFS exposes the stylesheets referenced by composed pages, laid out as
// they are linked: sections/*.css (served under /assets/sections/) and
// themes/*.css (served under /themes/).
//
// Typical mount:
//
//	mux.Handle("/assets/sections/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(landing.StaticFS()),
//	  ),
//	)
func StaticFS() fs.FS {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		return embeddedStatic
	}
	return sub
}

// StaticPaths maps each embedded file to the URL path composed pages link.
func StaticPaths() map[string]string {
	return map[string]string{
		"sections": "assets/sections",
		"themes":   "themes",
	}
}
