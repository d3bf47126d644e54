package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "debug", Format: "json"}, zapcore.AddSync(&buf))

	logger.Debug("recovered signer", zap.String("signer", "0xabc"))
	require.NoError(t, logger.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "recovered signer", entry["msg"])
	assert.Equal(t, "0xabc", entry["signer"])
	assert.Contains(t, entry, "time")
	assert.Contains(t, entry["caller"], "logging_test.go")
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Format: "json"}, zapcore.AddSync(&buf))

	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "loud", Format: "json"}, zapcore.AddSync(&buf))

	logger.Debug("hidden")
	logger.Info("shown")
	require.NoError(t, logger.Sync())

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_Logfmt(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Format: "logfmt"}, zapcore.AddSync(&buf))

	logger.Info("batch", zap.Int("requests", 4))
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.Contains(t, out, "msg=batch")
	assert.Contains(t, out, "requests=4")
	assert.Contains(t, out, "level=info")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Format: "console"}, zapcore.AddSync(&buf))

	logger.Info("console entry")
	require.NoError(t, logger.Sync())

	assert.Contains(t, buf.String(), "console entry")
	assert.Contains(t, buf.String(), "info")
}
