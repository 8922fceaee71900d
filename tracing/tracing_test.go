package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	require.NoError(t, InitWithExporter("kernelsim", "0.0.1", exporter))

	ctx, batch := StartSpan(context.Background(), "batch", KindProducer)
	current, ok := SpanFromContext(ctx)
	assert.True(t, ok)
	assert.NotNil(t, current)

	_, run := StartSpan(ctx, "run", KindInternal)
	run.WithAttributes(map[string]string{"algorithm": "RR"}).WithCounters(map[string]int{"processes": 2})
	run.AddEvent("dispatch", 40)
	EndSpan(run, errors.New("idle starvation"))
	EndSpan(batch, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "run", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Contains(t, spans[0].Attributes, attribute.String("algorithm", "RR"))
	assert.Contains(t, spans[0].Attributes, attribute.Int("processes", 2))
	assert.Equal(t, batch.span.SpanContext().SpanID(), spans[0].Parent.SpanID())
	require.Len(t, spans[0].Events, 2)
	assert.Equal(t, "dispatch", spans[0].Events[0].Name)
	assert.Contains(t, spans[0].Events[0].Attributes, attribute.String("virtual.time", "40us"))
	assert.Equal(t, "exception", spans[0].Events[1].Name)
	assert.Contains(t, spans[0].Events[1].Attributes, attribute.String("exception.message", "idle starvation"))
	assert.Equal(t, "batch", spans[1].Name)
	assert.Equal(t, codes.Ok, spans[1].Status.Code)

	_, ok = SpanFromContext(context.Background())
	assert.False(t, ok)
}
