package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, BackendFile, cfg.Backend)
	assert.Equal(t, DefaultAPIURL, cfg.API.URL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, DefaultStatePath, cfg.State.Path)
	assert.Equal(t, 30*time.Second, cfg.Catalog.CacheTTL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.NoError(t, ValidateConfig(cfg))
}

func TestGet_ResolvesBackendFromToken(t *testing.T) {
	t.Run("no token selects file backend", func(t *testing.T) {
		resetViper(t)
		SetDefaults()

		cfg, err := Get()
		require.NoError(t, err)
		assert.Equal(t, BackendFile, cfg.Backend)
	})

	t.Run("token selects api backend", func(t *testing.T) {
		resetViper(t)
		SetDefaults()
		viper.Set("api.token", "sbp_secret")

		cfg, err := Get()
		require.NoError(t, err)
		assert.Equal(t, BackendAPI, cfg.Backend)
	})

	t.Run("explicit backend wins", func(t *testing.T) {
		resetViper(t)
		SetDefaults()
		viper.Set("api.token", "sbp_secret")
		viper.Set("backend", BackendFile)

		cfg, err := Get()
		require.NoError(t, err)
		assert.Equal(t, BackendFile, cfg.Backend)
	})
}

func TestInitializeWithFile(t *testing.T) {
	resetViper(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "branchlink.toml")
	content := `backend = "file"

[state]
path = "custom.state.toml"

[catalog]
cache_ttl = "5s"

[logging]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	require.NoError(t, InitializeWithFile(path))

	cfg, err := Get()
	require.NoError(t, err)
	assert.Equal(t, "custom.state.toml", cfg.State.Path)
	assert.Equal(t, 5*time.Second, cfg.Catalog.CacheTTL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, path, ConfigFileUsed())
}

func TestInitializeWithFile_Missing(t *testing.T) {
	resetViper(t)

	err := InitializeWithFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestInitialize_EnvOverride(t *testing.T) {
	resetViper(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("BRANCHLINK_OUTPUT_FORMAT", "json")
	t.Setenv("BRANCHLINK_PLAIN", "true")

	require.NoError(t, Initialize())

	cfg, err := Get()
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.True(t, IsPlain())
}

func TestGetConfigPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("BRANCHLINK_CONFIG", filepath.Join(home, "custom", "config.toml"))

	paths := GetConfigPaths()

	require.NotEmpty(t, paths)
	assert.Equal(t, filepath.Join(home, "custom"), paths[0])
	assert.Equal(t, home, paths[len(paths)-1])
}
