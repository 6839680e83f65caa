package spec

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
)

// Store holds validated specs keyed by templateId.
type Store struct {
	mu    sync.RWMutex
	specs map[string]TemplateSpec
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{specs: make(map[string]TemplateSpec)}
}

// LoadFS walks fsys and decodes every JSON/YAML spec it finds. A nil fsys
// yields an empty store. Any invalid or duplicate spec aborts the load.
func LoadFS(fsys fs.FS, options ...ValidateOption) (*Store, error) {
	store := NewStore()
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSpecFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("spec: read %s: %w", path, err)
		}

		decoded, err := Decode(data, path, options...)
		if err != nil {
			return err
		}
		if err := store.add(decoded, path); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Add validates and stores a spec built in code.
func (s *Store) Add(value TemplateSpec, options ...ValidateOption) error {
	result := ValidateSpec(value, options...)
	if !result.Valid {
		return &ValidationError{TemplateID: value.TemplateID, Errors: result.Errors}
	}
	return s.add(value.Clone(), "")
}

// Merge copies every spec of other into s. Duplicate ids are an error.
func (s *Store) Merge(other *Store) error {
	if other == nil {
		return nil
	}
	for _, id := range other.IDs() {
		value, _ := other.Get(id)
		if err := s.add(value, ""); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) add(value TemplateSpec, source string) error {
	id := strings.TrimSpace(value.TemplateID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.specs[id]; exists {
		if source != "" {
			return fmt.Errorf("spec: duplicate template %q (file %s)", id, source)
		}
		return fmt.Errorf("spec: duplicate template %q", id)
	}
	s.specs[id] = value
	return nil
}

// Get returns a copy of the spec registered under id.
func (s *Store) Get(id string) (TemplateSpec, bool) {
	if s == nil {
		return TemplateSpec{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.specs[strings.TrimSpace(id)]
	if !ok {
		return TemplateSpec{}, false
	}
	return value.Clone(), true
}

// IDs returns the registered template ids, sorted.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.specs)
}

// Len reports how many specs are stored.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.specs)
}

func isSpecFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
