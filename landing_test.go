package landing

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-landing/pkg/compose"
	"github.com/goliatone/go-landing/pkg/pipeline"
	"github.com/goliatone/go-landing/pkg/sections"
	"github.com/goliatone/go-landing/pkg/testsupport"
)

func TestServiceCompose(t *testing.T) {
	svc := NewService()

	resp := svc.Compose(context.Background(), ComposeRequest{
		TemplateID: "saas-lead-gen",
		Overrides:  []byte(`{"sections":[{"headline":"Ship campaigns faster"}],"meta":{"title":"Acme"}}`),
	})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if !strings.Contains(resp.HTML, "Ship campaigns faster") || !strings.Contains(resp.HTML, "<title>Acme</title>") {
		t.Fatalf("overrides not applied")
	}
}

func TestServiceComposeReportsErrors(t *testing.T) {
	svc := NewService()

	cases := map[string]struct {
		req  ComposeRequest
		want string
	}{
		"unknown template": {
			req:  ComposeRequest{TemplateID: "missing"},
			want: `unknown template "missing"`,
		},
		"bad overrides": {
			req:  ComposeRequest{TemplateID: "saas-lead-gen", Overrides: []byte(`{"sections":{}}`)},
			want: "invalid overrides: overrides: /sections",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			resp := svc.Compose(context.Background(), tc.req)
			if resp.HTML != "" {
				t.Fatalf("expected no html on error")
			}
			if !strings.Contains(resp.Error, tc.want) {
				t.Fatalf("error %q does not contain %q", resp.Error, tc.want)
			}
		})
	}
}

func TestServiceInspect(t *testing.T) {
	svc := NewService()
	offline := false

	view, err := svc.Inspect(context.Background(), InspectRequest{TemplateID: "local-service", AllowRemoteAssets: &offline})
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if got := view.ResolvedAssets["heroImage"].Src; got != "/assets/local/service/hero.jpg" {
		t.Fatalf("unexpected hero src %q", got)
	}

	if _, err := svc.Inspect(context.Background(), InspectRequest{TemplateID: "missing"}); !errors.Is(err, compose.ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}
}

func TestServiceGeneratePageFallsBackWhenServiceFails(t *testing.T) {
	client := testsupport.NewStubClient(testsupport.StubAnswer{Err: errors.New("service down")})
	svc := NewService(WithGenerator(pipeline.New(client)))

	resp := svc.GeneratePage(context.Background(), GenerateRequest{
		TemplateID: "local-service",
		Brief: pipeline.BusinessBrief{
			ProductService: "Same-day plumbing repairs",
			Offer:          "Free call-out this month",
			CTA:            "Book now",
			Contact:        pipeline.Contact{BusinessName: "Pipe Pros"},
		},
	})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	for _, want := range []string{"Same-day plumbing repairs", "Free call-out this month", "<title>Pipe Pros</title>"} {
		if !strings.Contains(resp.HTML, want) {
			t.Fatalf("expected %q in generated page", want)
		}
	}
	if resp.Overrides == nil || resp.Overrides.Meta.Title != "Pipe Pros" {
		t.Fatalf("expected generated overrides in response, got %#v", resp.Overrides)
	}
	if got := len(client.Requests()); got != 2 {
		t.Fatalf("expected one call per stage, got %d", got)
	}
}

func TestServiceGeneratePageRejectsInvalidBrief(t *testing.T) {
	client := testsupport.NewStubClient()
	svc := NewService(WithGenerator(pipeline.New(client)))

	resp := svc.GeneratePage(context.Background(), GenerateRequest{TemplateID: "local-service"})
	if resp.Error == "" {
		t.Fatalf("expected brief validation error")
	}
	if len(client.Requests()) != 0 {
		t.Fatalf("no generation call expected for an invalid brief")
	}

	resp = svc.GeneratePage(context.Background(), GenerateRequest{
		TemplateID: "missing",
		Brief:      pipeline.BusinessBrief{ProductService: "x"},
	})
	if !strings.Contains(resp.Error, "unknown template") {
		t.Fatalf("expected unknown template error, got %q", resp.Error)
	}
}

func TestServiceComposeAllOffline(t *testing.T) {
	svc := NewService(WithConcurrency(2))
	offline := false

	results, err := svc.ComposeAll(context.Background(), nil, compose.Options{AllowRemoteAssets: &offline})
	if err != nil {
		t.Fatalf("compose all: %v", err)
	}
	ids, _ := svc.Composer().TemplateIDs()
	if len(results) != len(ids) {
		t.Fatalf("expected %d pages, got %d", len(ids), len(results))
	}
	for id, result := range results {
		if strings.Contains(result.HTML, "https://") && strings.Contains(result.HTML, "unsplash") {
			t.Fatalf("%s: offline build referenced a remote demo asset", id)
		}
	}

	if _, err := svc.ComposeAll(context.Background(), []string{"saas-lead-gen", "missing"}, compose.Options{}); !errors.Is(err, compose.ErrUnknownTemplate) {
		t.Fatalf("expected unknown template error, got %v", err)
	}
}

func TestStaticFSCoversLinkedStylesheets(t *testing.T) {
	fsys := StaticFS()
	registry := sections.NewDefaultRegistry()

	for _, href := range registry.Stylesheets(registry.Names()) {
		name := strings.TrimPrefix(href, "/assets/")
		if _, err := fs.Stat(fsys, name); err != nil {
			t.Fatalf("stylesheet %s missing from StaticFS: %v", href, err)
		}
	}
	catalog, err := compose.NewThemeCatalog(compose.DefaultThemes()...)
	if err != nil {
		t.Fatalf("theme catalog: %v", err)
	}
	for _, name := range catalog.Names() {
		if _, err := fs.Stat(fsys, "themes/"+name+".css"); err != nil {
			t.Fatalf("theme stylesheet %s missing: %v", name, err)
		}
	}
}

func TestLoadSpecsMergesDirectory(t *testing.T) {
	dir := t.TempDir()
	base, err := os.ReadFile(filepath.Join("pkg", "spec", "templates", "local-service.yaml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	custom := strings.Replace(string(base), "templateId: local-service", "templateId: local-service-copy", 1)
	if err := os.WriteFile(filepath.Join(dir, "copy.yaml"), []byte(custom), 0o644); err != nil {
		t.Fatalf("write spec: %v", err)
	}

	store, err := LoadSpecs(dir, nil)
	if err != nil {
		t.Fatalf("load specs: %v", err)
	}
	want := []string{"event-launch", "local-service", "local-service-copy", "saas-lead-gen"}
	if diff := cmp.Diff(want, store.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	if err := os.WriteFile(filepath.Join(dir, "dup.yaml"), base, 0o644); err != nil {
		t.Fatalf("write spec: %v", err)
	}
	if _, err := LoadSpecs(dir, nil); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}
