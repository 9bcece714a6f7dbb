package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContextWithOptions_JSON(t *testing.T) {
	var buf bytes.Buffer
	ctx, flush := NewContextWithOptions(context.Background(), Options{JSON: true, Out: &buf})

	ctx = With(ctx, "request_id", "req-1")
	FromCtx(ctx).Info().Str("tool", "record_unknown_question").Msg("executing tool")

	// diode writer is asynchronous
	time.Sleep(50 * time.Millisecond)
	flush()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "record_unknown_question", entry["tool"])
	assert.Equal(t, "executing tool", entry["message"])
}

func TestNewContextWithOptions_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	ctx, flush := NewContextWithOptions(context.Background(), Options{JSON: true, Out: &buf})
	FromCtx(ctx).Debug().Msg("hidden")
	time.Sleep(50 * time.Millisecond)
	flush()
	assert.Empty(t, buf.String())
}
