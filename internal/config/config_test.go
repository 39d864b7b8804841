package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(orig); err != nil {
			t.Fatal(err)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir()) // keep any real gitsplit.toml out of the test

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "googleai", cfg.Classifier.Backend)
	assert.Equal(t, "gemini-2.5-flash", cfg.Classifier.Model)
	assert.Equal(t, 12000, cfg.Chunk.MaxSize)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_TOMLFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gitsplit.toml")
	content := `
loglevel = "debug"

[classifier]
backend = "ollama"
model = "qwen2.5-coder"

[chunk]
maxsize = 4000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.Classifier.Backend)
	assert.Equal(t, "qwen2.5-coder", cfg.Classifier.Model)
	assert.Equal(t, 4000, cfg.Chunk.MaxSize)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("GITSPLIT_CLASSIFIER_APIKEY", "sk-from-env")
	t.Setenv("GITSPLIT_CLASSIFIER_MODEL", "gemini-2.5-pro")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.Classifier.APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.Classifier.Model)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Error(t, Validate(cfg), "googleai without api key must fail")

	cfg.Classifier.APIKey = "sk-something"
	assert.NoError(t, Validate(cfg))

	cfg.Classifier.Backend = "ollama"
	assert.NoError(t, Validate(cfg))

	cfg.Classifier.Model = ""
	assert.Error(t, Validate(cfg))

	cfg.Classifier.Backend = "watson"
	assert.Error(t, Validate(cfg))

	cfg.Classifier.Backend = "googleai"
	cfg.Classifier.Model = "gemini-2.5-flash"
	cfg.Chunk.MaxSize = 0
	assert.Error(t, Validate(cfg))
}
