// Package compose turns a template spec plus optional content overrides into
// a complete landing page document.
//
// Sections render in spec order through a sections.Registry. Each section's
// props are the spec defaults shallow-merged with the override entry at the
// same index, asset props are resolved through an AssetResolver, and the lead
// form is injected into the section that declares a form slot. The document
// shell is a pongo2 template themed through go-theme manifests.
package compose
