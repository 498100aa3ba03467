// Package sagalog records every transition of a checkout saga.
//
// Each row is an immutable event; the latest row per saga is its current
// state. Rows carry the trace and span of the request that produced them so
// an entry can be matched with its trace.
package sagalog

import "time"

type Status string

const (
	StatusStarted      Status = "STARTED"
	StatusStepDone     Status = "STEP_DONE"
	StatusCompleted    Status = "COMPLETED"
	StatusCompensating Status = "COMPENSATING"
	StatusFailed       Status = "FAILED"
)

// SagaLog is a single event in a saga's lifecycle.
type SagaLog struct {
	// SagaID is the order id the checkout is creating.
	SagaID string `json:"saga_id"`

	Status Status `json:"status"`

	// CurrentStep is the step that just ran, failed or was compensated.
	CurrentStep string `json:"current_step"`

	// Payload is written once, on STARTED.
	Payload string `json:"payload,omitempty"`

	// Errors accumulates failures of the step and of its compensations.
	Errors []string `json:"errors"`

	TraceID string `json:"trace_id,omitempty"`
	SpanID  string `json:"span_id,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}
