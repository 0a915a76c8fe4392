package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pomo", "config.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[pomodoro_config]")
	assert.Contains(t, string(data), `pomodoro_session_dir = "/tmp/sessions"`)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[pomodoro_config]
pomodoro_session_dir = "/data/sessions"
pomodoro_status_path = "/data/status"

[watch]
interval = "5s"

[tmux]
refresh_status = false

[logging]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/sessions", cfg.Pomodoro.SessionDir)
	assert.Equal(t, "/data/status", cfg.Pomodoro.StatusPath)
	assert.Equal(t, 25, cfg.Pomodoro.DefaultDuration, "missing keys keep defaults")
	assert.Equal(t, 5*time.Second, cfg.Watch.Interval)
	assert.False(t, cfg.Tmux.RefreshStatus)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(defaultConfigTOML), 0644))
	t.Setenv("POMO_POMODORO_CONFIG_POMODORO_SESSION_DIR", "/env/sessions")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/env/sessions", cfg.Pomodoro.SessionDir)
}

func TestLoadExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[pomodoro_config]
pomodoro_session_dir = "~/pomo/sessions"
pomodoro_status_path = "~/pomo/status"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "pomo", "sessions"), cfg.Pomodoro.SessionDir)
	assert.Equal(t, filepath.Join(home, "pomo", "status"), cfg.Pomodoro.StatusPath)
}

func TestLoadErrors(t *testing.T) {
	t.Run("invalid toml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("[pomodoro_config\n"), 0644))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("empty session dir", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("[pomodoro_config]\npomodoro_session_dir = \"\"\n"), 0644))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pomodoro_session_dir")
	})
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Watch.Interval = 0
	cfg.Pomodoro.DefaultDuration = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch.interval")
	assert.Contains(t, err.Error(), "default_duration")
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, "/xdg/pomo/config.toml", Path())

	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "pomo", "config.toml"), Path())
}
