package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/ButyrinIA/blogbackend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	log := New(config.LogConfig{Level: "warn", Format: "json"}, &buf)

	log.Info("dropped")
	log.Warn("kept", "route", "/api/blogs")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "/api/blogs", line["route"])
	assert.Same(t, log, slog.Default())
}

func TestNewText(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	New(config.LogConfig{Level: "debug", Format: "text"}, &buf).Debug("hello")

	assert.Contains(t, buf.String(), "msg=hello")
}
