// Package spec defines the declarative TemplateSpec format that describes one
// landing page template (ordered sections, logical assets, lead form and
// metadata), the exhaustive validator used by loaders and authoring tools, and
// a Store that loads JSON or YAML specs from an fs.FS.
package spec
