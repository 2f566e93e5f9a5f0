package pricing

import (
	"context"
	"time"
)

// DecisionRecord is one appended entry of price-decision history, kept for
// telemetry continuity across cycles. Nothing in the decision path reads it.
type DecisionRecord struct {
	CycleID       string
	MachineID     int
	GPUName       string
	NumGPUs       int
	DemandPercent float64
	PreviousPrice float64
	NewPrice      float64
	Action        Action
	Reason        string
	TestMode      bool
	RecordedAt    time.Time
}

// DecisionRecorder persists decision history for observability.
// This is implemented in the adapter layer (persistence).
type DecisionRecorder interface {
	// RecordDecision appends one history entry.
	RecordDecision(ctx context.Context, record *DecisionRecord) error

	// RecentDecisions returns up to limit entries, newest first.
	// machineID 0 means all machines.
	RecentDecisions(ctx context.Context, machineID int, limit int) ([]*DecisionRecord, error)
}
