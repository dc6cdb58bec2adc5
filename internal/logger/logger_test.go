package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel(" error "))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}

func TestNewJSONLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Config{Level: LevelWarn, Format: "json"})

	l.Info("hidden")
	l.Warn("shown", "meal", "lunch")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "lunch", entry["meal"])
}

func TestInitWithConfigWritesToFile(t *testing.T) {
	prev := GetLogger()
	t.Cleanup(func() { SetLogger(prev) })

	path := filepath.Join(t.TempDir(), "logs", "app.log")
	require.NoError(t, InitWithConfig(Config{Level: LevelInfo, OutputPath: path, Format: "text"}))

	Info("diary opened", "dates", 3)
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "diary opened")
	assert.Contains(t, string(data), "dates=3")
}
