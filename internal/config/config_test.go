package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "landing.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(ConfigFileEnv, "")

	cfg, err := Load(New(""))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), *cfg)
}

func TestLoadFileAndEnvPrecedence(t *testing.T) {
	path := writeConfig(t, `
generation:
  provider: openai
  api_key: from-file
  model: file-model
  timeout: 10s
assets:
  allow_remote: false
log:
  level: debug
`)
	t.Setenv("LANDING_GENERATION_MODEL", "env-model")

	cfg, err := Load(New(path))
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Generation.Provider)
	assert.Equal(t, "from-file", cfg.Generation.APIKey)
	assert.Equal(t, "env-model", cfg.Generation.Model)
	assert.Equal(t, 10*time.Second, cfg.Generation.Timeout)
	assert.False(t, cfg.Assets.AllowRemote)
	assert.Equal(t, "/assets/placeholders", cfg.Assets.PlaceholderPrefix)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigFileEnv(t *testing.T) {
	path := writeConfig(t, "log:\n  format: json\n")
	t.Setenv(ConfigFileEnv, path)

	cfg, err := Load(New(""))
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"unknown provider": "generation:\n  provider: carrier-pigeon\n",
		"missing key":      "generation:\n  provider: genai\n",
		"bad level":        "log:\n  level: loud\n",
		"both sources":     "assets:\n  manifest_dir: ./m\n  manifest_url: https://cdn.example.com/m\n",
		"relative prefix":  "assets:\n  placeholder_prefix: img\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(New(writeConfig(t, body)))
			require.Error(t, err)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(New(filepath.Join(t.TempDir(), "absent.yml")))
	require.Error(t, err)
}
