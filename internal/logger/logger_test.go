package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	orig := log.Logger
	t.Cleanup(func() { log.Logger = orig })

	t.Run("console output", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New(Config{Level: "info", Console: &buf})
		require.NoError(t, err)
		defer l.Close()

		log.Info().Str("k", "v").Msg("hello")
		log.Debug().Msg("hidden")

		out := buf.String()
		assert.Contains(t, out, `"message":"hello"`)
		assert.Contains(t, out, `"k":"v"`)
		assert.NotContains(t, out, "hidden")
	})

	t.Run("file output", func(t *testing.T) {
		var buf bytes.Buffer
		logFile := filepath.Join(t.TempDir(), "logs", "pomo.log")

		l, err := New(Config{Level: "debug", File: logFile, Console: &buf})
		require.NoError(t, err)

		log.Debug().Msg("to both")
		require.NoError(t, l.Close())

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "to both")
		assert.Contains(t, buf.String(), "to both")
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New(Config{Level: "chatty", Console: &buf})
		require.NoError(t, err)
		defer l.Close()

		assert.Equal(t, zerolog.InfoLevel, l.Zerolog().GetLevel())
	})

	t.Run("pretty console", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New(Config{Level: "warn", Console: &buf, Pretty: true})
		require.NoError(t, err)
		defer l.Close()

		log.Warn().Msg("careful")
		assert.Contains(t, buf.String(), "careful")
		assert.NotContains(t, buf.String(), `"message"`)
	})
}
