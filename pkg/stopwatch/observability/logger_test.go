package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHandler captures log records for testing.
type testHandler struct {
	buf   *bytes.Buffer
	level slog.Level
	attrs []slog.Attr
}

func newTestHandler() *testHandler {
	return &testHandler{
		buf:   &bytes.Buffer{},
		level: slog.LevelDebug,
	}
}

func (h *testHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	for _, attr := range h.attrs {
		data[attr.Key] = attr.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})
	return json.NewEncoder(h.buf).Encode(data)
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := &testHandler{
		buf:   h.buf,
		level: h.level,
		attrs: make([]slog.Attr, len(h.attrs)+len(attrs)),
	}
	copy(newH.attrs, h.attrs)
	copy(newH.attrs[len(h.attrs):], attrs)
	return newH
}

func (h *testHandler) WithGroup(string) slog.Handler {
	return h
}

func (h *testHandler) getLastRecord() map[string]any {
	lines := bytes.Split(h.buf.Bytes(), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		if len(lines[i]) > 0 {
			var m map[string]any
			if err := json.Unmarshal(lines[i], &m); err == nil {
				return m
			}
		}
	}
	return nil
}

func TestEnrichLogger(t *testing.T) {
	t.Run("adds stopwatch_id", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		enriched := EnrichLogger(logger, "db-query")
		enriched.Info("test message")

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "db-query", record["stopwatch_id"])
		assert.Equal(t, "test message", record["msg"])
	})

	t.Run("nil logger returns nil", func(t *testing.T) {
		assert.Nil(t, EnrichLogger(nil, "db-query"))
	})
}

func TestLogCreate(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogCreate(logger, "render", 3)

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "DEBUG", record["level"])
	assert.Equal(t, "stopwatch created", record["msg"])
	assert.Equal(t, "render", record["stopwatch_id"])
	assert.Equal(t, float64(3), record["registered"]) // JSON decodes ints as float64
}

func TestLogCreateRejected(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogCreateRejected(logger, "render", errors.New("id already taken"))

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "stopwatch create rejected", record["msg"])
	assert.Equal(t, "id already taken", record["error"])
}

func TestLogLap(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogLap(EnrichLogger(logger, "render"), 2, 1500*time.Microsecond)

	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "lap recorded", record["msg"])
	assert.Equal(t, "render", record["stopwatch_id"])
	assert.Equal(t, float64(2), record["lap"])
	assert.Equal(t, 1.5, record["duration_ms"])
}

func TestLogStopAndReset(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogStop(logger, 4, 2*time.Second)
	record := h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "stopwatch stopped", record["msg"])
	assert.Equal(t, float64(4), record["laps"])
	assert.Equal(t, float64(2000), record["elapsed_ms"])

	LogReset(logger)
	record = h.getLastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "stopwatch reset", record["msg"])
}

func TestLogHelpersNilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		LogCreate(nil, "a", 1)
		LogCreateRejected(nil, "a", errors.New("x"))
		LogLap(nil, 1, time.Second)
		LogStop(nil, 1, time.Second)
		LogReset(nil)
	})
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	time.Sleep(5 * time.Millisecond)
	assert.GreaterOrEqual(t, done(), 5*time.Millisecond)
}
