package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(t *testing.T, level string) (*Logger, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: parseLevel(level)})
	return &Logger{Logger: slog.New(handler)}, &buf
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantLines int
	}{
		{name: "debug level logs everything", level: "debug", wantLines: 3},
		{name: "info level drops debug", level: "info", wantLines: 2},
		{name: "warn level drops debug and info", level: "warn", wantLines: 1},
		{name: "unknown level defaults to info", level: "bogus", wantLines: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(t, tt.level)

			logger.Debug("debug message")
			logger.Info("info message")
			logger.Warn("warn message")

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			assert.Len(t, lines, tt.wantLines)
		})
	}
}

func TestLoggerAttributes(t *testing.T) {
	logger, buf := newBufferLogger(t, "info")

	logger.With("service", "worker").Info("started", slog.Int("concurrency", 4))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "started", entry["msg"])
	assert.Equal(t, "worker", entry["service"])
	assert.Equal(t, float64(4), entry["concurrency"])
}

func TestNewFormats(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{name: "json format", config: &Config{Level: "info", Format: "json"}},
		{name: "console format", config: &Config{Level: "debug", Format: "console"}},
		{name: "empty config falls back to defaults", config: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.config)
			require.NoError(t, err)
			require.NotNil(t, logger)
		})
	}
}

func TestNewDefault(t *testing.T) {
	logger := NewDefault()
	require.NotNil(t, logger)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
}
