package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Test Plan for logging:
// - verbosity counts map onto warn/info/debug
// - default logger drops info lines and keeps warnings
// - JSON output carries structured fields

func TestVerbosityToLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(0))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(1))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(2))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(5))
}

func TestNew_DefaultVerbosityShowsWarningsOnly(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(Options{Output: &buf})

	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_JSONOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(Options{Verbosity: 1, JSON: true, Output: &buf})

	log.Info("generated", zap.String("dest", "api.ts"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "generated", entry["msg"])
	assert.Equal(t, "api.ts", entry["dest"])
}
