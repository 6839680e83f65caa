package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-landing/internal/config"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv(config.ConfigFileEnv, "")
	t.Setenv("LANDING_LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestTemplatesCommand(t *testing.T) {
	out, err := runCLI(t, "templates")
	require.NoError(t, err)

	assert.Contains(t, out, "ID")
	for _, id := range []string{"event-launch", "local-service", "saas-lead-gen"} {
		assert.Contains(t, out, id)
	}
}

func TestComposeCommandOffline(t *testing.T) {
	overrides := writeTemp(t, "copy.json", `{"sections":[{"headline":"Fixed by lunch"}]}`)

	out, err := runCLI(t, "compose", "local-service", "--offline", "--overrides", overrides)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "Fixed by lunch")
	assert.Contains(t, out, `src="/assets/local/service/hero.jpg"`)
	assert.NotContains(t, out, "unsplash")
}

func TestComposeCommandReportsShapeErrors(t *testing.T) {
	overrides := writeTemp(t, "bad.json", `{"assets":["x"]}`)

	_, err := runCLI(t, "compose", "local-service", "--overrides", overrides)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/assets")
}

func TestValidateCommand(t *testing.T) {
	good := writeTemp(t, "good.yaml", `
templateId: tiny
version: 1.0.0
category: product
goal: purchase
theme: modern-light
sections:
  - type: hero
    props:
      headline: Hello
assets: {}
form: []
metadata:
  name: Tiny
  description: Smallest valid spec.
  tags: []
`)
	bad := writeTemp(t, "bad.json", `{"templateId":"bad","category":"nope","sections":[{"type":"carousel"}]}`)

	out, err := runCLI(t, "validate", good, bad)
	require.Error(t, err)
	assert.Contains(t, out, "ok   "+good)
	assert.Contains(t, out, "FAIL "+bad)
	assert.Contains(t, err.Error(), "1 of 2")
}

func TestGenerateCommandWithoutProvider(t *testing.T) {
	brief := writeTemp(t, "brief.yaml", `
productService: Mobile bike repair
offer: First tune-up half price
cta: Book a repair
contact:
  businessName: Spoke Doctors
`)
	saved := filepath.Join(t.TempDir(), "generated.json")

	out, err := runCLI(t, "generate", "local-service", "--brief", brief, "--offline", "--save-overrides", saved)
	require.NoError(t, err)

	assert.Contains(t, out, "Mobile bike repair")
	assert.Contains(t, out, "<title>Spoke Doctors</title>")
	data, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title": "Spoke Doctors"`)
}

func TestGenerateCommandNeedsBrief(t *testing.T) {
	_, err := runCLI(t, "generate", "local-service")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--brief")
}

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, "build", "--out", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Built 3 page(s)")

	for _, id := range []string{"event-launch", "local-service", "saas-lead-gen"} {
		assert.FileExists(t, filepath.Join(dir, id, "index.html"))
	}
	assert.FileExists(t, filepath.Join(dir, "assets", "sections", "base.css"))
	assert.FileExists(t, filepath.Join(dir, "themes", "modern-light.css"))

	page, err := os.ReadFile(filepath.Join(dir, "saas-lead-gen", "index.html"))
	require.NoError(t, err)
	assert.NotContains(t, string(page), "images.unsplash.com")
}

func TestCreditsCommand(t *testing.T) {
	out, err := runCLI(t, "credits", "saas-lead-gen")
	require.NoError(t, err)
	assert.Contains(t, out, "demo-saas-modern-light-hero-01")
	assert.Contains(t, out, "Unsplash")
}

func TestInspectCommandUnknownTemplate(t *testing.T) {
	_, err := runCLI(t, "inspect", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown template")
}

func TestWatchFileDebouncesWrites(t *testing.T) {
	path := writeTemp(t, "copy.json", "{}")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, 50*time.Millisecond, func() { calls.Add(1) })
	}()

	// give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte(`{"meta":{"title":"v"}}`), 0o644))
	}

	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 5*time.Second, 20*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	assert.LessOrEqual(t, calls.Load(), int32(2))
}
