package tracer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func recordingTracer() (*Tracer, *tracetest.SpanRecorder) {
	rec := tracetest.NewSpanRecorder()
	return &Tracer{tracer: sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))}, rec
}

func TestSpanLifecycle(t *testing.T) {
	tr, rec := recordingTracer()

	_, span := tr.StartSpan(context.Background(), "search")
	tr.SetAttributes(span, map[string]interface{}{
		"mode":    "semantic",
		"limit":   100,
		"vectors": []string{"education"},
	})
	tr.RecordErrorOnSpan(span, errors.New("boom"))
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "search", ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Len(t, ended[0].Attributes(), 3)
}

func TestNilTracerIsNoop(t *testing.T) {
	var tr *Tracer
	ctx, span := tr.StartSpan(context.Background(), "x")
	assert.NotNil(t, ctx)
	assert.False(t, span.SpanContext().IsValid())
	tr.RecordErrorOnSpan(span, errors.New("ignored"))
	span.End()
	assert.NoError(t, tr.Shutdown(context.Background()))
}

func TestCarrierRoundTrip(t *testing.T) {
	tr, _ := recordingTracer()
	ctx, span := tr.StartSpan(context.Background(), "produce")
	defer span.End()

	carrier := tr.GetCarrier(ctx)
	require.Contains(t, carrier, "traceparent")

	extracted := tr.SetCarrierOnContext(context.Background(), carrier)
	_, child := tr.StartSpan(extracted, "consume")
	defer child.End()
	assert.Equal(t, span.SpanContext().TraceID(), child.SpanContext().TraceID())
}
