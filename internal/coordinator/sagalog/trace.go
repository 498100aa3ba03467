package sagalog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// TraceInfo holds the OpenTelemetry identifiers of the active span.
type TraceInfo struct {
	TraceID string
	SpanID  string
}

// ExtractTraceInfo returns the hex trace and span ids of the span in ctx, or
// empty strings when there is none.
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return TraceInfo{}
	}
	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}

// NewEntry builds an entry stamped with the trace info found in ctx.
//
//	entry := sagalog.NewEntry(ctx, orderID, sagalog.StatusStepDone, "Reserve_Stock_Step", "", nil, now)
func NewEntry(ctx context.Context, sagaID string, status Status, step, payload string, errs []string, at time.Time) *SagaLog {
	ti := ExtractTraceInfo(ctx)
	if errs == nil {
		errs = []string{}
	}
	return &SagaLog{
		SagaID:      sagaID,
		Status:      status,
		CurrentStep: step,
		Payload:     payload,
		Errors:      errs,
		TraceID:     ti.TraceID,
		SpanID:      ti.SpanID,
		UpdatedAt:   at.UTC(),
	}
}
