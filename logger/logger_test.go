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
)

func captureLogger(buf *bytes.Buffer) Logger {
	return FromZerolog(zerolog.New(buf))
}

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewAcceptsLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		assert.NotNil(t, New(level, false), "level %s", level)
		assert.NotNil(t, New(level, true), "level %s", level)
	}
}

func TestZeroLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	log := captureLogger(&buf)

	log.Warn().
		Str("operation", "geocode.find").
		Int("attempt", 2).
		Int64("big", 10).
		Float64("lat", 41.38).
		Dur("backoff", 2*time.Second).
		Bytes("body", []byte("snippet")).
		Err(errors.New("boom")).
		Msg("attempt failed, retrying")

	entry := logLine(t, &buf)
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "attempt failed, retrying", entry["message"])
	assert.Equal(t, "geocode.find", entry["operation"])
	assert.Equal(t, float64(2), entry["attempt"])
	assert.Equal(t, 41.38, entry["lat"])
	assert.Equal(t, "snippet", entry["body"])
	assert.Equal(t, "boom", entry["error"])
}

func TestZeroLoggerMsgf(t *testing.T) {
	var buf bytes.Buffer
	log := captureLogger(&buf)

	log.Info().Msgf("resolved %d candidates", 3)

	entry := logLine(t, &buf)
	assert.Equal(t, "resolved 3 candidates", entry["message"])
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := captureLogger(&buf).WithFields(map[string]any{"component": "client"})

	log.Info().Msg("hello")

	entry := logLine(t, &buf)
	assert.Equal(t, "client", entry["component"])
}

func TestNopLoggerChains(t *testing.T) {
	log := NewNop()

	// Nothing to assert beyond "does not panic".
	log.Debug().Str("k", "v").Int("n", 1).Err(errors.New("x")).Msg("ignored")
	log.Info().Msgf("ignored %d", 1)
	log.WithFields(map[string]any{"k": "v"}).Error().Msg("ignored")
}

func TestRecorderCapturesEntries(t *testing.T) {
	rec := NewRecorder()

	rec.Warn().Str("operation", "op").Int("attempt", 1).Msg("retrying")
	rec.Error().Err(errors.New("fatal-ish")).Msg("gave up")
	rec.Debug().Msg("noise")

	entries := rec.Entries()
	require.Len(t, entries, 3)

	assert.Equal(t, "warn", entries[0].Level)
	assert.Equal(t, "retrying", entries[0].Message)
	assert.Equal(t, "op", entries[0].Fields["operation"])
	assert.Equal(t, 1, entries[0].Fields["attempt"])

	assert.Equal(t, "error", entries[1].Level)
	assert.Equal(t, "fatal-ish", entries[1].Fields["error"])

	assert.Equal(t, 1, rec.CountAt("warn"))
	assert.Equal(t, 1, rec.CountAt("error"))
	assert.Equal(t, 0, rec.CountAt("info"))
}

func TestRecorderEntriesAreCopies(t *testing.T) {
	rec := NewRecorder()
	rec.Info().Msg("one")

	first := rec.Entries()
	rec.Info().Msg("two")

	assert.Len(t, first, 1)
	assert.Len(t, rec.Entries(), 2)
}
