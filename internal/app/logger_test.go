package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_LevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("warn", "json", &buf)

	logger.Info("hidden")
	logger.Warn("shown", "action_id", "compile")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "compile", entry["action_id"])
}

func TestNewLogger_TextDefault(t *testing.T) {
	var buf bytes.Buffer
	newLogger("bogus", "text", &buf).Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}
