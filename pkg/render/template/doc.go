// Package template defines the engine-agnostic seam the composer uses to
// render the page document shell. The pongo2 implementation lives in the
// gotemplate subpackage.
package template
