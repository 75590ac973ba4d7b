package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "1", cfg.Version)
	assert.Equal(t, "./models", cfg.Models.Package)
	assert.False(t, cfg.Models.IncludeUnmarked)
	assert.False(t, cfg.Schema.StrictMode)
	assert.Equal(t, "snake_case", cfg.Schema.NamingConvention)
	assert.Equal(t, "yaml", cfg.Output.Format)
}

func TestLoadConfig(t *testing.T) {
	t.Run("file values and defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ormlite.yaml")
		content := `version: "1"
models:
  package: ./internal/db
schema:
  strict_mode: true
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "./internal/db", cfg.Models.Package)
		assert.True(t, cfg.Schema.StrictMode)
		assert.Equal(t, "snake_case", cfg.Schema.NamingConvention)
		assert.Equal(t, "yaml", cfg.Output.Format)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ormlite.yaml")
		require.NoError(t, os.WriteFile(path, []byte("models: [unclosed"), 0644))

		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("no file gives defaults", func(t *testing.T) {
		isolateConfig(t)

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("environment variable", func(t *testing.T) {
		isolateConfig(t)

		path := filepath.Join(t.TempDir(), "custom.yaml")
		require.NoError(t, os.WriteFile(path, []byte("output:\n  format: json\n"), 0644))
		t.Setenv(ConfigEnv, path)

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "json", cfg.Output.Format)
	})
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	isolateConfig(t)

	path := filepath.Join(t.TempDir(), "ormlite.yaml")
	require.NoError(t, os.WriteFile(path, []byte("models:\n  package: ./db\nschema:\n  strict_mode: false\n"), 0644))

	t.Setenv("ORMLITE_SCHEMA_STRICT_MODE", "true")
	t.Setenv("ORMLITE_OUTPUT_FORMAT", "json")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "./db", cfg.Models.Package)
	assert.True(t, cfg.Schema.StrictMode)
	assert.Equal(t, "json", cfg.Output.Format)

	t.Setenv("ORMLITE_MODELS_PACKAGE", "./entities")

	cfg, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "./entities", cfg.Models.Package)
	assert.Equal(t, "snake_case", cfg.Schema.NamingConvention)
}

func TestGetConfigPath(t *testing.T) {
	isolateConfig(t)
	assert.Equal(t, "", GetConfigPath())

	require.NoError(t, os.WriteFile(".ormlite.yml", []byte("version: \"1\"\n"), 0644))
	assert.Equal(t, ".ormlite.yml", GetConfigPath())

	require.NoError(t, os.WriteFile("ormlite.yaml", []byte("version: \"1\"\n"), 0644))
	assert.Equal(t, "ormlite.yaml", GetConfigPath())
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ormlite.yaml")

	cfg := DefaultConfig()
	cfg.Models.Package = "./db"
	cfg.Schema.NamingConvention = "verbatim"
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestInitCommand(t *testing.T) {
	isolateConfig(t)

	stdout, _, err := executeCommand(t, "init", "--package", "./db")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created ormlite.yaml")

	cfg, err := LoadConfig("ormlite.yaml")
	require.NoError(t, err)
	assert.Equal(t, "./db", cfg.Models.Package)

	_, _, err = executeCommand(t, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = executeCommand(t, "init", "--force", "--package", "./models")
	require.NoError(t, err)
}
