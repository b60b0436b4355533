package nats

import (
	"context"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestHeaderCarrierPropagatesTraceContext(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	header := nats.Header{}
	prop := propagation.TraceContext{}
	prop.Inject(ctx, HeaderCarrier(header))

	require.NotEmpty(t, header.Get("traceparent"))
	assert.Contains(t, HeaderCarrier(header).Keys(), "traceparent")

	extracted := prop.Extract(context.Background(), HeaderCarrier(header))
	assert.Equal(t, span.SpanContext().TraceID(), trace.SpanContextFromContext(extracted).TraceID())
}

func TestCheckWithoutConnection(t *testing.T) {
	p := &Publisher{}
	assert.Error(t, p.Check(context.Background()))
	p.Close()
}
