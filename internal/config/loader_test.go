package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user config dir and working directory at empty temp
// dirs so no real config or .env file is read.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))

	wd, err := os.Getwd()
	require.NoError(t, err)
	work := t.TempDir()
	require.NoError(t, os.Chdir(work))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	SetConfigFile("")
	return work
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("LoadDefaults", func(t *testing.T) {
		isolate(t)
		cfg, err := Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "localhost", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
		assert.Equal(t, 120*time.Second, cfg.Server.IdleTimeout)
		assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)

		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "console", cfg.Logging.Format)
		assert.False(t, cfg.Logging.JSON())

		assert.True(t, cfg.History.Enabled)
		assert.Equal(t, filepath.Join(AppDir(), "history"), cfg.History.Dir)
		assert.Equal(t, filepath.Join(AppDir(), "settings.json"), cfg.Settings.Path)
	})

	t.Run("RuntimeOverrides", func(t *testing.T) {
		isolate(t)
		overrides := map[string]any{
			"server": map[string]any{
				"port": 9000,
				"host": "0.0.0.0",
			},
			"logging": map[string]any{
				"level": "debug",
			},
		}

		cfg, err := Load(ctx, overrides)
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "console", cfg.Logging.Format)
	})

	t.Run("EnvOverrides", func(t *testing.T) {
		isolate(t)
		t.Setenv("GOHOTFOLDER_PORT", "3000")
		t.Setenv("GOHOTFOLDER_LOG_LEVEL", "warn")
		t.Setenv("GOHOTFOLDER_HISTORY_ENABLED", "false")
		t.Setenv("GOHOTFOLDER_SETTINGS_PATH", "/srv/shop/settings.yaml")

		cfg, err := Load(ctx)
		require.NoError(t, err)

		assert.Equal(t, 3000, cfg.Server.Port)
		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.False(t, cfg.History.Enabled)
		assert.Equal(t, "/srv/shop/settings.yaml", cfg.Settings.Path)
	})

	t.Run("ConfigPrecedence", func(t *testing.T) {
		isolate(t)
		t.Setenv("GOHOTFOLDER_PORT", "4000")

		cfg, err := Load(ctx, map[string]any{"server": map[string]any{"port": 5000}})
		require.NoError(t, err)
		assert.Equal(t, 5000, cfg.Server.Port)
	})

	t.Run("DotEnvFile", func(t *testing.T) {
		work := isolate(t)
		require.NoError(t, os.WriteFile(filepath.Join(work, ".env"), []byte("GOHOTFOLDER_HOST=10.0.0.5\n"), 0o644))
		t.Cleanup(func() { _ = os.Unsetenv("GOHOTFOLDER_HOST") })

		cfg, err := Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.5", cfg.Server.Host)
	})

	t.Run("ExplicitConfigFile", func(t *testing.T) {
		work := isolate(t)
		path := filepath.Join(work, "shop.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 7070\nhistory:\n  dir: /var/lib/hot/history\n"), 0o644))
		SetConfigFile(path)
		t.Cleanup(func() { SetConfigFile("") })

		cfg, err := Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 7070, cfg.Server.Port)
		assert.Equal(t, "/var/lib/hot/history", cfg.History.Dir)
	})

	t.Run("MissingExplicitConfigFile", func(t *testing.T) {
		work := isolate(t)
		SetConfigFile(filepath.Join(work, "absent.yaml"))
		t.Cleanup(func() { SetConfigFile("") })

		_, err := Load(ctx)
		assert.Error(t, err)
	})

	t.Run("InvalidValues", func(t *testing.T) {
		isolate(t)
		_, err := Load(ctx, map[string]any{"logging": map[string]any{"format": "xml"}})
		assert.ErrorContains(t, err, "logging.format")

		_, err = Load(ctx, map[string]any{"server": map[string]any{"port": 70000}})
		assert.ErrorContains(t, err, "server.port")
	})
}

func TestDurationParsing(t *testing.T) {
	isolate(t)
	t.Setenv("GOHOTFOLDER_READ_TIMEOUT", "45s")
	t.Setenv("GOHOTFOLDER_SHUTDOWN_TIMEOUT", "5m")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Server.ShutdownTimeout)
}

func TestGetConfig(t *testing.T) {
	isolate(t)
	ctx := context.Background()

	cfg1, err := Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg1.Server.Port, GetConfig().Server.Port)

	cfg2, err := Load(ctx, map[string]any{"server": map[string]any{"port": cfg1.Server.Port + 1000}})
	require.NoError(t, err)
	assert.Equal(t, cfg2.Server.Port, GetConfig().Server.Port)
}

func TestEnvSpecs(t *testing.T) {
	specs := getEnvSpecs()
	require.NotEmpty(t, specs)

	names := map[string]string{}
	for _, spec := range specs {
		assert.Contains(t, spec.Name, "GOHOTFOLDER_")
		assert.NotEmpty(t, spec.Path)
		names[spec.Name] = spec.Path
	}
	assert.Equal(t, "server.port", names["GOHOTFOLDER_PORT"])
	assert.Equal(t, "logging.level", names["GOHOTFOLDER_LOG_LEVEL"])
	assert.Equal(t, "settings.path", names["GOHOTFOLDER_SETTINGS"])
}

func TestFlatten(t *testing.T) {
	got := flatten("", map[string]any{
		"server":  map[string]any{"port": 1, "host": "h"},
		"history": map[string]any{"enabled": false},
	})
	assert.Equal(t, map[string]any{"server.port": 1, "server.host": "h", "history.enabled": false}, got)
}
