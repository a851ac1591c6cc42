package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSONWithSeverity(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Component: "casadf-schema", Level: "DEBUG", Output: &buf})
	require.NoError(t, err)

	logger.Debug("migration applied")
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "DEBUG", entry["severity"])
	assert.Equal(t, "migration applied", entry["message"])
	assert.Equal(t, "casadf-schema", entry["component"])
	assert.Contains(t, entry, "timestamp")
	assert.Contains(t, entry["caller"], "logger_test.go")
}

func TestNewLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Output: &buf})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Warn("shown")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"severity":"WARN"`)
}

func TestNewLogger_BadLevel(t *testing.T) {
	_, err := NewLogger(Config{Level: "loud"})
	assert.Error(t, err)
}
