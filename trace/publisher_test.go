package observability_test

import (
	"context"
	"testing"

	observability "parking/trace"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
)

func TestTracingPublisherDecorator_injects_trace_context(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	tp := tracesdk.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "publish")
	defer span.End()

	pubSub := gochannel.NewGoChannel(gochannel.Config{Persistent: true}, watermill.NopLogger{})
	publisher := observability.TracingPublisherDecorator{Publisher: pubSub}

	messages, err := pubSub.Subscribe(context.Background(), "topic")
	require.NoError(t, err)

	msg := message.NewMessage(watermill.NewUUID(), []byte("{}"))
	msg.SetContext(ctx)
	require.NoError(t, publisher.Publish("topic", msg))

	received := <-messages
	received.Ack()

	assert.Contains(t, received.Metadata.Get("traceparent"), span.SpanContext().TraceID().String())
}
