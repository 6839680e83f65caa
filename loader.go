package landing

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-landing/pkg/sections"
	"github.com/goliatone/go-landing/pkg/spec"
)

// LoadSpecs returns the built-in specs plus every spec found under dir. An
// empty dir yields the built-ins only. Section types are checked against
// registry; a nil registry uses the default archetypes.
func LoadSpecs(dir string, registry *sections.Registry) (*spec.Store, error) {
	if registry == nil {
		registry = sections.NewDefaultRegistry()
	}
	return loadSpecs(spec.EmbeddedFS(), dirFS(dir), spec.WithSectionTypes(registry.Has))
}

func loadSpecs(builtin, extra fs.FS, options ...spec.ValidateOption) (*spec.Store, error) {
	store, err := spec.LoadFS(builtin, options...)
	if err != nil {
		return nil, fmt.Errorf("landing: built-in specs: %w", err)
	}
	if extra == nil {
		return store, nil
	}
	custom, err := spec.LoadFS(extra, options...)
	if err != nil {
		return nil, fmt.Errorf("landing: custom specs: %w", err)
	}
	if err := store.Merge(custom); err != nil {
		return nil, fmt.Errorf("landing: custom specs: %w", err)
	}
	return store, nil
}

func dirFS(dir string) fs.FS {
	if strings.TrimSpace(dir) == "" {
		return nil
	}
	return os.DirFS(dir)
}
