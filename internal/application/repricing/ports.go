package repricing

import (
	"time"

	"github.com/hostlabs/gpupricer-go/internal/domain/pricing"
)

// CycleMetrics receives observations from the repricing loop.
// This is implemented in the adapter layer (metrics).
type CycleMetrics interface {
	// ObserveCycle is called once per completed pass over the machines.
	ObserveCycle(machinesEvaluated int, duration time.Duration)

	// ObserveDecision is called for every policy decision.
	ObserveDecision(action pricing.Action)

	// ObserveUpdate is called for every real (non-test-mode) price update.
	ObserveUpdate(success bool)
}

// nopMetrics discards all observations (used when metrics are disabled).
type nopMetrics struct{}

func (nopMetrics) ObserveCycle(int, time.Duration) {}
func (nopMetrics) ObserveDecision(pricing.Action)  {}
func (nopMetrics) ObserveUpdate(bool)              {}
