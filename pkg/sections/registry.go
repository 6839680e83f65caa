package sections

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Renderer writes the markup for a single section into buf.
type Renderer func(buf *bytes.Buffer, props Props) error

// Descriptor bundles a renderer with the stylesheets the section depends on.
type Descriptor struct {
	Name        string
	Renderer    Renderer
	Stylesheets []string
}

// Registry tracks section descriptors keyed by type tag. Callers can register
// new section types or replace the defaults.
type Registry struct {
	mu       sync.RWMutex
	sections map[string]Descriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		sections: make(map[string]Descriptor),
	}
}

// Clone returns a copy of the registry so callers can extend it in isolation.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := New()
	for name, descriptor := range r.sections {
		cloned.sections[name] = cloneDescriptor(descriptor)
	}
	return cloned
}

// Register associates a descriptor with the provided type tag. Existing entries
// are replaced.
func (r *Registry) Register(name string, descriptor Descriptor) error {
	if name = normalize(name); name == "" {
		return fmt.Errorf("sections: section type is required")
	}
	if descriptor.Renderer == nil {
		return fmt.Errorf("sections: renderer for %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	descriptor.Name = name
	r.sections[name] = cloneDescriptor(descriptor)
	return nil
}

// MustRegister mirrors Register but panics on error.
func (r *Registry) MustRegister(name string, descriptor Descriptor) {
	if err := r.Register(name, descriptor); err != nil {
		panic(err)
	}
}

// Descriptor fetches a descriptor by type tag.
func (r *Registry) Descriptor(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.sections[normalize(name)]
	if !ok {
		return Descriptor{}, false
	}
	return cloneDescriptor(descriptor), true
}

// Has reports whether a renderer is registered for the type tag. It satisfies
// the lookup expected by spec.WithSectionTypes.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sections[normalize(name)]
	return ok
}

// Names returns the registered type tags, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.sections))
	for name := range r.sections {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Render looks up the renderer for sectionType and returns its markup.
func (r *Registry) Render(sectionType string, props Props) (string, error) {
	descriptor, ok := r.Descriptor(sectionType)
	if !ok {
		return "", fmt.Errorf("sections: no renderer registered for %q", sectionType)
	}
	var buf bytes.Buffer
	if err := descriptor.Renderer(&buf, props); err != nil {
		return "", fmt.Errorf("sections: render %q: %w", sectionType, err)
	}
	return buf.String(), nil
}

// Stylesheets returns the deduplicated stylesheets for the given section
// types, in first-seen order.
func (r *Registry) Stylesheets(names []string) []string {
	if len(names) == 0 {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, name := range names {
		descriptor, ok := r.sections[normalize(name)]
		if !ok {
			continue
		}
		for _, href := range descriptor.Stylesheets {
			if href == "" {
				continue
			}
			if _, exists := seen[href]; exists {
				continue
			}
			seen[href] = struct{}{}
			out = append(out, href)
		}
	}
	return out
}

func cloneDescriptor(src Descriptor) Descriptor {
	return Descriptor{
		Name:        src.Name,
		Renderer:    src.Renderer,
		Stylesheets: slices.Clone(src.Stylesheets),
	}
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
