package sections

import (
	"bytes"
	"slices"
	"testing"
)

func TestRegistryDescriptorClone(t *testing.T) {
	reg := New()
	renderer := func(buf *bytes.Buffer, props Props) error { return nil }

	if err := reg.Register("test", Descriptor{Renderer: renderer, Stylesheets: []string{"/a.css"}}); err != nil {
		t.Fatalf("register: %v", err)
	}

	desc, ok := reg.Descriptor("test")
	if !ok {
		t.Fatalf("descriptor not found")
	}
	desc.Stylesheets = append(desc.Stylesheets, "/mutated.css")

	original, _ := reg.Descriptor("test")
	if len(original.Stylesheets) != 1 || original.Stylesheets[0] != "/a.css" {
		t.Fatalf("registry descriptor mutated: %#v", original.Stylesheets)
	}
}

func TestRegistryRejectsInvalidDescriptors(t *testing.T) {
	reg := New()
	if err := reg.Register("  ", Descriptor{Renderer: func(*bytes.Buffer, Props) error { return nil }}); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if err := reg.Register("hero", Descriptor{}); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
}

func TestRegistryNormalizesNames(t *testing.T) {
	reg := New()
	reg.MustRegister(" Hero ", Descriptor{Renderer: func(buf *bytes.Buffer, props Props) error {
		buf.WriteString("<hero>")
		return nil
	}})

	if !reg.Has("hero") || !reg.Has("HERO") {
		t.Fatalf("expected normalised lookup to succeed")
	}
	out, err := reg.Render("hero", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "<hero>" {
		t.Fatalf("unexpected output %q", out)
	}
	if _, err := reg.Render("missing", nil); err == nil {
		t.Fatalf("expected error for unknown section type")
	}
}

func TestRegistryCloneIsolated(t *testing.T) {
	base := NewDefaultRegistry()
	cloned := base.Clone()
	cloned.MustRegister("pricing", Descriptor{Renderer: func(*bytes.Buffer, Props) error { return nil }})

	if base.Has("pricing") {
		t.Fatalf("clone registration leaked into base registry")
	}
	if !cloned.Has("hero") {
		t.Fatalf("clone lost default descriptors")
	}
}

func TestDefaultRegistryNames(t *testing.T) {
	got := NewDefaultRegistry().Names()
	want := []string{"cta", "hero", "services", "showcase", "testimonials", "trust-badges"}
	if !slices.Equal(got, want) {
		t.Fatalf("names mismatch: got %v want %v", got, want)
	}
}

func TestRegistryStylesheetsDeduplicates(t *testing.T) {
	reg := NewDefaultRegistry()
	styles := reg.Stylesheets([]string{"hero", "cta", "hero", "unknown"})
	want := []string{"/assets/sections/base.css", "/assets/sections/hero.css", "/assets/sections/cta.css"}
	if !slices.Equal(styles, want) {
		t.Fatalf("stylesheets mismatch: got %v want %v", styles, want)
	}
}
