package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "contacts-service", "1.2.3", "production", "warn", "json")

	log.Info().Msg("dropped")
	log.Warn().Str("event", EventContactWriteFailed).Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "contacts-service", entry["service"])
	assert.Equal(t, "1.2.3", entry["version"])
	assert.Equal(t, EventContactWriteFailed, entry["event"])
	assert.Equal(t, "kept", entry["message"])
}

func TestNewWithWriterBadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "svc", "", "", "loud", "json")
	log.Debug().Msg("dropped")
	assert.Zero(t, buf.Len())
	log.Info().Msg("kept")
	assert.NotZero(t, buf.Len())
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(&buf, "svc", "", "", "info", "json")

	ctx := WithTraceID(context.Background(), "abc")
	assert.Equal(t, "abc", TraceID(ctx))
	assert.Equal(t, context.Background(), WithTraceID(context.Background(), ""))

	l := ContextLogger(ctx, base)
	l.Info().Msg("hello")
	assert.Contains(t, buf.String(), `"trace_id":"abc"`)
}
