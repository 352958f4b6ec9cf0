package nodestore

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	all := []Status{StatusPending, StatusReady, StatusRunning, StatusSucceeded, StatusFailed, StatusSkipped}
	allowed := map[[2]Status]bool{
		{StatusPending, StatusReady}:     true,
		{StatusPending, StatusSkipped}:   true,
		{StatusReady, StatusRunning}:     true,
		{StatusReady, StatusSkipped}:     true,
		{StatusRunning, StatusSucceeded}: true,
		{StatusRunning, StatusFailed}:    true,
	}
	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]Status{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusReady.Terminal())
	assert.False(t, StatusRunning.Terminal())
	assert.True(t, StatusSucceeded.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.True(t, StatusSkipped.Terminal())
}

func TestStatus_JSON(t *testing.T) {
	b, err := json.Marshal(map[string]Status{"a": StatusSkipped})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"skipped"}`, string(b))
	assert.Equal(t, "unknown", Status(42).String())
}
