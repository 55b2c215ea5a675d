package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/gpr2m/pkg/config"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log output must be JSON")
	return entry
}

func TestNew_SetsGlobalLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log := New(&config.Config{Env: "development", LogLevel: tt.level, LogFormat: "json"})
			require.NotNil(t, log)
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"DEBUG", zerolog.DebugLevel},
		{"warning", zerolog.WarnLevel},
		{"panic", zerolog.PanicLevel},
		{"invalid", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestLoggerMethods(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug", "test")

	tests := []struct {
		name      string
		logFunc   func()
		wantMsg   string
		wantLevel string
	}{
		{"debug", func() { log.Debug("company skipped") }, "company skipped", "debug"},
		{"info", func() { log.Info("month scored") }, "month scored", "info"},
		{"warn", func() { log.Warn("basket shortfall") }, "basket shortfall", "warn"},
		{"error", func() { log.Error("month failed") }, "month failed", "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.logFunc()

			entry := decodeEntry(t, &buf)
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, tt.wantMsg, entry["message"])
			assert.Equal(t, "test", entry["env"])
		})
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug", "test")

	log.WithFields(map[string]interface{}{
		"company": "1001",
		"gpr2m":   0.001,
	}).Info("scored")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "1001", entry["company"])
	assert.Equal(t, 0.001, entry["gpr2m"])
}

type stage string

func (s stage) String() string { return string(s) }

func TestForMonth(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug", "test")

	asOf := time.Date(2011, 1, 31, 15, 30, 0, 0, time.UTC)
	log.ForMonth(stage("S2_FACTOR"), asOf).
		WithFields(map[string]interface{}{"company": "1001"}).
		Debug("Company skipped")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "S2_FACTOR", entry["stage"])
	assert.Equal(t, "2011-01-31", entry["date"])
	assert.Equal(t, "1001", entry["company"])
	assert.Equal(t, "debug", entry["level"])
}

func TestWithStage(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug", "test")

	log.WithStage(stage("S0_DATA")).Info("Datasets loaded")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "S0_DATA", entry["stage"])
	assert.NotContains(t, entry, "date")
}

func TestWriterFor(t *testing.T) {
	var buf bytes.Buffer

	assert.Same(t, &buf, writerFor("json", &buf).(*bytes.Buffer))
	assert.IsType(t, zerolog.ConsoleWriter{}, writerFor("Pretty", &buf))
	assert.IsType(t, zerolog.ConsoleWriter{}, writerFor("console", &buf))
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug", "test")

	log.WithError(errors.New("total assets is zero")).Error("month failed")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "total assets is zero", entry["error"])
	assert.Equal(t, "month failed", entry["message"])
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	require.NotNil(t, log)
	log.WithFields(map[string]interface{}{"k": "v"}).Error("discarded")
}
