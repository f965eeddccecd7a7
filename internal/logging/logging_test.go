package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planline/internal/config"
	"planline/internal/logging"
)

func TestJSONLoggerHonoursLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Format = "json"
	cfg.Log.Level = "warn"
	var buf bytes.Buffer
	logger := logging.New(cfg, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "project", "p1")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "p1", rec["project"])
	assert.Equal(t, "planline", rec["component"])
}

func TestTextLoggerDefault(t *testing.T) {
	var buf bytes.Buffer
	logging.New(nil, &buf).Debug("quiet")
	assert.Empty(t, buf.String())
	logging.New(nil, &buf).Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}
