package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(LogConfig{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)

	apiLog := WithComponent(logger, "api")
	apiLog.Info().Str("file", "a.pdf").Msg("extracted")
	logger.Debug().Msg("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "api", entry["component"])
	assert.Equal(t, "a.pdf", entry["file"])
	assert.Equal(t, "extracted", entry["message"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(DefaultConfig(), &buf)
	require.NoError(t, err)

	logger.Warn().Msg("degraded page data")
	assert.Contains(t, buf.String(), "degraded page data")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(LogConfig{Level: "loud"}, &bytes.Buffer{})
	assert.Error(t, err)
}
