package sagalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewEntry_CarriesTraceInfo(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "checkout")
	defer span.End()

	entry := NewEntry(ctx, "order-1", StatusStarted, "", "", nil, time.Now())
	assert.Equal(t, span.SpanContext().TraceID().String(), entry.TraceID)
	assert.Equal(t, span.SpanContext().SpanID().String(), entry.SpanID)
	assert.NotNil(t, entry.Errors)
}

func TestNewEntry_WithoutSpan(t *testing.T) {
	entry := NewEntry(context.Background(), "order-1", StatusCompleted, "Create_Order_Step", "", nil, time.Now())
	assert.Empty(t, entry.TraceID)
	assert.Empty(t, entry.SpanID)
	assert.Equal(t, time.UTC, entry.UpdatedAt.Location())
}

func TestMemoryRepository(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	entry := NewEntry(ctx, "order-1", StatusFailed, "Reserve_Stock_Step", "", []string{"out of stock"}, time.Now())
	require.NoError(t, repo.Save(ctx, entry))
	entry.Errors[0] = "mutated"

	history, err := repo.History(ctx, "order-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, []string{"out of stock"}, history[0].Errors)

	history[0].Errors[0] = "mutated again"
	again, err := repo.History(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, "out of stock", again[0].Errors[0])
}
