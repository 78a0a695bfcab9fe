package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewLogger_AddsServiceAndContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{
		Level:       "debug",
		Format:      "json",
		Output:      &buf,
		ServiceName: "ventsite",
		Environment: "test",
	})

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithUserID(ctx, "user-1")
	ctx = WithRole(ctx, "ADMIN")

	logger.InfoContext(ctx, "hello", "k", "v")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "ventsite", entry["service"])
	assert.Equal(t, "test", entry["environment"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "user-1", entry["user_id"])
	assert.Equal(t, "ADMIN", entry["role"])
	assert.Equal(t, "v", entry["k"])
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: "warn", Output: &buf})

	logger.Info("skipped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(Config{Output: &buf})

	ctx := WithRequestID(context.Background(), "req-2")
	LoggerFromContext(ctx, base).Info("scoped")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "req-2", entry["request_id"])
	assert.Equal(t, "req-2", GetRequestID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestLogPanic(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Output: &buf})

	LogPanic(context.Background(), logger, "boom", "path", "/x")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "panic recovered", entry["msg"])
	assert.Equal(t, "boom", entry["panic"])
	assert.Equal(t, "/x", entry["path"])
	assert.NotEmpty(t, entry["stack_trace"])
}
