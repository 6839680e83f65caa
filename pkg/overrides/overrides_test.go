package overrides

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestShallowMergeReplacesKeysWholesale(t *testing.T) {
	defaults := map[string]any{
		"a":        1,
		"b":        2,
		"services": []any{"one", "two", "three"},
		"nested":   map[string]any{"x": 1, "y": 2},
	}
	override := map[string]any{
		"b":        3,
		"services": []any{"only"},
		"nested":   map[string]any{"y": 9},
		OmitKey:    true,
	}

	got := ShallowMerge(defaults, override)
	want := map[string]any{
		"a":        1,
		"b":        3,
		"services": []any{"only"},
		"nested":   map[string]any{"y": 9},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
	if defaults["b"] != 2 || len(defaults["services"].([]any)) != 3 {
		t.Fatalf("defaults mutated: %#v", defaults)
	}
	if _, ok := override["a"]; ok {
		t.Fatalf("override mutated: %#v", override)
	}
}

func TestShallowMergeDropsRuntimeKeys(t *testing.T) {
	defaults := map[string]any{"headline": "Default"}
	override := map[string]any{
		"headline":      "Mine",
		"_heroImageSrc": "https://evil.test/x.png",
		"_formHtml":     "<script>alert(1)</script>",
	}

	got := ShallowMerge(defaults, override)
	if diff := cmp.Diff(map[string]any{"headline": "Mine"}, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDocumentedShape(t *testing.T) {
	doc := []byte(`{
		"sections": [null, {"_omit": true}, {"headline": "Hi", "services": [{"title": "A"}]}],
		"assets": {"heroImage": "/uploads/hero.png"},
		"meta": {"title": "T", "description": "D", "tagline": "G", "altText": {"heroImage": "Alt"}},
		"formOverrides": {"email": {"label": "Work email", "placeholder": "you@company.com"}},
		"imageHints": {"heroImage": "team in office"},
		"unknown": 42
	}`)

	got, err := Parse(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if _, ok := got.Section(0); ok {
		t.Fatalf("null entry must not count as an override")
	}
	if entry, ok := got.Section(1); !ok || !entry.Omit {
		t.Fatalf("expected omission marker at index 1, got %#v", entry)
	}
	entry, ok := got.Section(2)
	if !ok || entry.Props["headline"] != "Hi" {
		t.Fatalf("expected props at index 2, got %#v", entry)
	}
	if _, ok := got.Section(7); ok {
		t.Fatalf("out of range index must be ignored")
	}
	if src, _ := got.Asset("heroImage"); src != "/uploads/hero.png" {
		t.Fatalf("asset override missing: %q", src)
	}
	if got.AltText("heroImage") != "Alt" || got.Meta.Tagline != "G" {
		t.Fatalf("meta mismatch: %#v", got.Meta)
	}
	if field, _ := got.Field("email"); field.Label != "Work email" {
		t.Fatalf("form override mismatch: %#v", field)
	}
	if got.ImageHints["heroImage"] != "team in office" {
		t.Fatalf("image hint missing: %#v", got.ImageHints)
	}
}

func TestParseRejectsMalformedShapes(t *testing.T) {
	cases := map[string]struct {
		doc  string
		path string
	}{
		"root array":          {`[1,2]`, "/"},
		"invalid json":        {`{"sections":`, "/"},
		"sections object":     {`{"sections": {}}`, "/sections"},
		"section string":      {`{"sections": [null, "hero"]}`, "/sections/1"},
		"omit not bool":       {`{"sections": [{"_omit": "yes"}]}`, "/sections/0/_omit"},
		"asset number":        {`{"assets": {"heroImage": 3}}`, "/assets/heroImage"},
		"meta title number":   {`{"meta": {"title": 1}}`, "/meta/title"},
		"alt text not string": {`{"meta": {"altText": {"a/b": true}}}`, "/meta/altText/a~1b"},
		"form not object":     {`{"formOverrides": {"email": "x"}}`, "/formOverrides/email"},
		"form label number":   {`{"formOverrides": {"email": {"label": 5}}}`, "/formOverrides/email/label"},
		"hints list":          {`{"imageHints": []}`, "/imageHints"},
		"runtime image src":   {`{"sections": [{"_heroImageSrc": "javascript:x"}]}`, "/sections/0/_heroImageSrc"},
		"runtime form markup": {`{"sections": [null, {"headline": "ok", "_formHtml": "<script>"}]}`, "/sections/1/_formHtml"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			var shapeErr *MergeShapeError
			if !errors.As(err, &shapeErr) {
				t.Fatalf("expected MergeShapeError, got %v", err)
			}
			if shapeErr.Path != tc.path {
				t.Fatalf("path mismatch: got %q want %q", shapeErr.Path, tc.path)
			}
		})
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, doc := range []string{"", "  ", "null"} {
		got, err := Parse([]byte(doc))
		if err != nil || got != nil {
			t.Fatalf("Parse(%q) = %#v, %v; want nil, nil", doc, got, err)
		}
	}
}

func TestSectionOverrideJSON(t *testing.T) {
	o := &ContentOverrides{}
	o.SetSection(2, map[string]any{"headline": "Hi"})
	o.OmitSection(0)

	payload, err := json.Marshal(o)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"sections":[{"_omit":true},null,{"headline":"Hi"}]}`
	if string(payload) != want {
		t.Fatalf("unexpected encoding:\n got %s\nwant %s", payload, want)
	}

	var decoded ContentOverrides
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(o, &decoded); diff != "" {
		t.Fatalf("decoded overrides differ (-want +got):\n%s", diff)
	}
}

func TestCloneIsDeep(t *testing.T) {
	original := &ContentOverrides{
		Assets: map[string]string{"heroImage": "a"},
		Meta:   Meta{AltText: map[string]string{"heroImage": "alt"}},
	}
	original.SetSection(0, map[string]any{"services": []any{map[string]any{"title": "A"}}})

	cloned := original.Clone()
	cloned.Assets["heroImage"] = "b"
	cloned.Meta.AltText["heroImage"] = "changed"
	cloned.Sections[0].Props["services"].([]any)[0].(map[string]any)["title"] = "B"

	if original.Assets["heroImage"] != "a" || original.Meta.AltText["heroImage"] != "alt" {
		t.Fatalf("clone shares maps with original")
	}
	if original.Sections[0].Props["services"].([]any)[0].(map[string]any)["title"] != "A" {
		t.Fatalf("clone shares section props with original")
	}
}
