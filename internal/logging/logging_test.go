package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "quill.log")

	log, err := New(path, "info", false)
	require.NoError(t, err)
	log.Debug("hidden")
	log.Info("turn", zap.String("action", "SEND"))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "turn", entry["msg"])
	assert.Equal(t, "SEND", entry["action"])
	assert.Equal(t, "info", entry["level"])
}

func TestVerboseEnablesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quill.log")

	log, err := New(path, "warn", true)
	require.NoError(t, err)
	log.Debug("shown")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "shown")
}

func TestBadLevel(t *testing.T) {
	_, err := New("", "loud", false)
	assert.Error(t, err)
}
