package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(tracing bool) (*LoggerClient, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewFromZap(zap.New(core), tracing), logs
}

func TestFieldsAndError(t *testing.T) {
	l, logs := observed(false)

	l.Warn("embedding failed", errors.New("timeout"), map[string]interface{}{"field": "education"})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	ctx := entry.ContextMap()
	assert.Equal(t, "education", ctx["field"])
	assert.Equal(t, "timeout", ctx["error"])
}

func TestLaterFieldMapsWin(t *testing.T) {
	l, logs := observed(false)

	l.Info("merged", nil, map[string]interface{}{"k": 1}, map[string]interface{}{"k": 2})

	require.Equal(t, 1, logs.Len())
	assert.EqualValues(t, 2, logs.All()[0].ContextMap()["k"])
}

func TestTraceCorrelation(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	t.Run("enabled", func(t *testing.T) {
		l, logs := observed(true)
		l.InfoWithContext(ctx, "search", nil)
		fields := logs.All()[0].ContextMap()
		assert.Equal(t, traceID.String(), fields["trace_id"])
		assert.Equal(t, spanID.String(), fields["span_id"])
	})

	t.Run("disabled", func(t *testing.T) {
		l, logs := observed(false)
		l.InfoWithContext(ctx, "search", nil)
		_, ok := logs.All()[0].ContextMap()["trace_id"]
		assert.False(t, ok)
	})

	t.Run("no span", func(t *testing.T) {
		l, logs := observed(true)
		l.ErrorWithContext(context.Background(), "search", nil)
		_, ok := logs.All()[0].ContextMap()["trace_id"]
		assert.False(t, ok)
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.DebugLevel, parseLevel("development"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("production"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
}
