package app

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger("info", "json", &buf)
		logger.Debug("hidden")
		logger.Info("Package constructed.", "rules", 2)

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 1)
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
		assert.Equal(t, "Package constructed.", entry["msg"])
		assert.Equal(t, 2.0, entry["rules"])
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger("warn", "text", &buf)
		logger.Info("hidden")
		logger.Warn("careful", "package", "app")
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), "package=app")
		assert.NotContains(t, buf.String(), "hidden")
	})

	t.Run("pretty", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger("debug", "pretty", &buf)
		logger.Debug("visible", "package", "app")
		assert.Contains(t, buf.String(), "visible")
		assert.Contains(t, buf.String(), "package=app")
	})
}
