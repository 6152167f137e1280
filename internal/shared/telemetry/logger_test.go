package telemetry

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Info("generation.complete", map[string]any{"request_id": "req-1", "duration_ms": 12.5})

	var payload map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &payload))
	assert.Equal(t, "info", payload["level"])
	assert.Equal(t, "generation.complete", payload["msg"])
	assert.Equal(t, "req-1", payload["request_id"])
	assert.Equal(t, 12.5, payload["duration_ms"])
	assert.NotEmpty(t, payload["ts"])
}

func TestConfigureFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, "warn")
	defer Configure(nil, "info")

	Info("dropped", nil)
	Warn("kept", map[string]any{"k": "v"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"msg":"kept"`)
	assert.Contains(t, lines[0], `"level":"warn"`)
}
