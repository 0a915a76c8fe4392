package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jh3/pomo/internal/session"
)

type testEnv struct {
	configPath string
	sessionDir string
	statusPath string
	now        time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	orig := log.Logger
	t.Cleanup(func() { log.Logger = orig })

	root := t.TempDir()
	env := &testEnv{
		configPath: filepath.Join(root, "config.toml"),
		sessionDir: filepath.Join(root, "sessions"),
		statusPath: filepath.Join(root, "status"),
		now:        time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
	}

	content := fmt.Sprintf(`
cache_dir = %q

[pomodoro_config]
pomodoro_session_dir = %q
pomodoro_status_path = %q

[tmux]
refresh_status = false
`, filepath.Join(root, "cache"), env.sessionDir, env.statusPath)
	require.NoError(t, os.WriteFile(env.configPath, []byte(content), 0644))
	return env
}

func (e *testEnv) run(args ...string) (string, error) {
	a := &app{now: func() time.Time { return e.now }}
	cmd := newRootCmd(a)

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestCommandsExist(t *testing.T) {
	cmd := NewRootCmd()
	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"start", "show", "active", "today", "yesterday", "range", "watch", "status", "pick", "clear-cache"} {
		assert.True(t, names[want], "%s command should exist", want)
	}
}

func TestStartFlags(t *testing.T) {
	cmd := newStartCmd(&app{})

	duration := cmd.Flags().Lookup("duration")
	require.NotNil(t, duration)
	assert.Equal(t, "t", duration.Shorthand)

	desc := cmd.Flags().Lookup("description")
	require.NotNil(t, desc)
	assert.Equal(t, "d", desc.Shorthand)
	assert.Equal(t, "no description", desc.DefValue)
}

func TestStartAndQuery(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("start", "-t", "25", "-d", "Write Report")
	require.NoError(t, err)
	assert.Contains(t, out, "Starting session: Write Report for 25 minutes")

	_, err = os.Stat(filepath.Join(env.sessionDir, "20240110090000-session.yaml"))
	require.NoError(t, err)

	status, err := os.ReadFile(env.statusPath)
	require.NoError(t, err)
	assert.Equal(t, "Write Report - 25/0", string(status))

	t.Run("show", func(t *testing.T) {
		out, err := env.run("show")
		require.NoError(t, err)
		assert.Contains(t, out, "Write Report")
		assert.Contains(t, out, "2024-01-10 09:00:00")
	})

	t.Run("show without cache", func(t *testing.T) {
		out, err := env.run("--no-cache", "show", "-s", "REPORT")
		require.NoError(t, err)
		assert.Contains(t, out, "Write Report")
	})

	t.Run("active", func(t *testing.T) {
		env.now = time.Date(2024, 1, 10, 9, 10, 3, 0, time.UTC)
		out, err := env.run("active")
		require.NoError(t, err)
		assert.Contains(t, out, "Write Report")

		env.now = time.Date(2024, 1, 10, 9, 25, 0, 0, time.UTC)
		out, err = env.run("active")
		require.NoError(t, err)
		assert.NotContains(t, out, "Write Report")
	})

	t.Run("status", func(t *testing.T) {
		env.now = time.Date(2024, 1, 10, 9, 10, 3, 0, time.UTC)
		out, err := env.run("status")
		require.NoError(t, err)
		assert.Equal(t, "Write Report - 25/10\n", out)

		env.now = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
		out, err = env.run("status")
		require.NoError(t, err)
		assert.Equal(t, "No active session\n", out)

		status, err := os.ReadFile(env.statusPath)
		require.NoError(t, err)
		assert.Empty(t, status)
	})

	t.Run("today and yesterday", func(t *testing.T) {
		env.now = time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)
		out, err := env.run("today", "-s", "report")
		require.NoError(t, err)
		assert.Contains(t, out, "Write Report")

		env.now = time.Date(2024, 1, 12, 9, 30, 0, 0, time.UTC)
		out, err = env.run("yesterday")
		require.NoError(t, err)
		assert.NotContains(t, out, "Write Report")
		assert.Contains(t, out, "0 sessions")
	})

	t.Run("range", func(t *testing.T) {
		out, err := env.run("range", "2024-01-10", "2024-01-11", "--export")
		require.NoError(t, err)
		assert.Contains(t, out, "Write Report")
		assert.Contains(t, out, "Total")
		assert.Contains(t, out, "00:25")

		out, err = env.run("range", "2024-01-10 09:25:00", "2024-01-10 10:00:00")
		require.NoError(t, err)
		assert.NotContains(t, out, "Write Report", "session ending at range start is excluded")
	})
}

func TestRangeErrors(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.MkdirAll(env.sessionDir, 0755))

	_, err := env.run("range", "yesterday", "2024-01-11")
	require.Error(t, err)
	assert.ErrorIs(t, err, session.ErrMalformedTimestamp)

	_, err = env.run("range", "2024-01-11", "2024-01-10")
	assert.Error(t, err)

	_, err = env.run("range", "2024-01-11")
	assert.Error(t, err)
}

func TestCorruptSessionFile(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.MkdirAll(env.sessionDir, 0755))
	bad := filepath.Join(env.sessionDir, "20240110090000-session.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("description: x\nduration:\n  secs: 60\nstart: soon\n"), 0644))

	_, err := env.run("show")
	require.Error(t, err)
	assert.ErrorIs(t, err, session.ErrMalformedTimestamp)

	_, err = env.run("status")
	assert.ErrorIs(t, err, session.ErrMalformedTimestamp)
}

func TestStatusTmuxSnippet(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run("status", "--tmux")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("set -g status-right '#(cat %s)'\n", env.statusPath), out)
}

func TestClearCache(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run("clear-cache")
	require.NoError(t, err)
	assert.Equal(t, "Cache cleared.\n", out)
}

func TestParseBound(t *testing.T) {
	got, err := parseBound("2024-01-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), got)

	got, err = parseBound("2024-01-10 23:59:59")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 10, 23, 59, 59, 0, time.UTC), got)

	_, err = parseBound("10.01.2024")
	assert.ErrorIs(t, err, session.ErrMalformedTimestamp)
}
