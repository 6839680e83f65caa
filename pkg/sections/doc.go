// Package sections holds the registry that maps a section type tag to its
// renderer, along with the built-in landing page archetypes. Renderers are
// pure: they read props (including "_"-prefixed runtime fields injected by the
// composer) and write an escaped markup fragment. They never resolve assets or
// look at other sections.
package sections
