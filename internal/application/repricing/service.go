package repricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hostlabs/gpupricer-go/internal/application/common"
	"github.com/hostlabs/gpupricer-go/internal/domain/market"
	"github.com/hostlabs/gpupricer-go/internal/domain/pricing"
	"github.com/hostlabs/gpupricer-go/internal/domain/shared"
)

// Options configures one repricing service instance.
type Options struct {
	// TargetGPUName restricts repricing to machines with this exact GPU
	// model name. Empty matches all machines.
	TargetGPUName string

	// TargetNumGPUs restricts repricing to machines with this exact GPU
	// count. Zero matches all machines.
	TargetNumGPUs int

	// MinReliability is passed to the comparable-offer search.
	MinReliability float64

	// TestMode logs would-be price changes without submitting them.
	TestMode bool
}

// Service runs one repricing pass over the operator's machines: fetch the
// market snapshot per machine, ask the policy for a decision, and submit
// the price change unless the decision is HOLD or test mode is on.
//
// The service is single-threaded and keeps no state that gates correctness;
// everything is recomputed from the live marketplace each cycle. The
// last-known-price map exists only for log continuity.
type Service struct {
	marketplace market.Marketplace
	policy      *pricing.Policy
	opts        Options
	logger      common.EventLogger
	recorder    pricing.DecisionRecorder // optional, best-effort
	metrics     CycleMetrics
	clock       shared.Clock

	lastKnownPrice map[int]float64
}

// NewService creates a repricing service. logger, recorder, metrics and
// clock may be nil; nil dependencies are replaced with no-op or real
// implementations.
func NewService(
	marketplace market.Marketplace,
	policy *pricing.Policy,
	opts Options,
	logger common.EventLogger,
	recorder pricing.DecisionRecorder,
	metrics CycleMetrics,
	clock shared.Clock,
) *Service {
	if logger == nil {
		logger = common.NopLogger{}
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Service{
		marketplace:    marketplace,
		policy:         policy,
		opts:           opts,
		logger:         logger,
		recorder:       recorder,
		metrics:        metrics,
		clock:          clock,
		lastKnownPrice: make(map[int]float64),
	}
}

// RunCycle performs one full repricing pass. A transport failure on the
// machine listing aborts the cycle; per-machine failures are logged and the
// pass continues with the next machine. Never fatal to the caller's loop.
func (s *Service) RunCycle(ctx context.Context) error {
	cycleID := uuid.NewString()[:8]
	started := s.clock.Now()

	machines, err := s.marketplace.ListOwnMachines(ctx)
	if err != nil {
		s.logger.Logf(common.LevelError, "Failed to list machines: %v", err)
		return fmt.Errorf("list own machines: %w", err)
	}

	evaluated := 0
	for _, m := range machines {
		if !s.matchesTarget(m) {
			s.logger.Logf(common.LevelDebug, "Skipping machine %d (%d x %s): does not match target filter",
				m.ID, m.NumGPUs, m.GPUName)
			continue
		}
		evaluated++
		s.repriceMachine(ctx, cycleID, m)
	}

	if evaluated == 0 {
		s.logger.Log(common.LevelInfo, "No matching machines found")
	}

	s.metrics.ObserveCycle(evaluated, s.clock.Now().Sub(started))
	return nil
}

// LastKnownPrice returns the most recent decided price for a machine, if
// this process has seen one. Advisory only.
func (s *Service) LastKnownPrice(machineID int) (float64, bool) {
	price, ok := s.lastKnownPrice[machineID]
	return price, ok
}

func (s *Service) matchesTarget(m market.Machine) bool {
	if s.opts.TargetGPUName != "" && m.GPUName != s.opts.TargetGPUName {
		return false
	}
	if s.opts.TargetNumGPUs > 0 && m.NumGPUs != s.opts.TargetNumGPUs {
		return false
	}
	return true
}

func (s *Service) repriceMachine(ctx context.Context, cycleID string, m market.Machine) {
	s.logger.Logf(common.LevelInfo, "--- Machine %d (%d x %s) | Status: %s | Current: $%.4f/GPU/hr ---",
		m.ID, m.NumGPUs, m.GPUName, m.Status(), m.CurrentPrice)

	offers, err := s.marketplace.SearchComparableOffers(ctx, m.GPUName, m.NumGPUs, s.opts.MinReliability)
	if err != nil {
		s.logger.Logf(common.LevelError, "Market search failed for machine %d: %v", m.ID, err)
		return
	}

	snap := market.BuildSnapshot(offers)
	s.logMarket(m, snap)

	decision := s.policy.Decide(m.CurrentPrice, snap)
	s.metrics.ObserveDecision(decision.Action)

	switch {
	case !decision.Changed():
		s.logger.Logf(common.LevelInfo, "Action: HOLD | %s", decision.Reason)

	case s.opts.TestMode:
		s.logger.Logf(common.LevelInfo, "Action: %s | %s | New Price: $%.4f/GPU/hr",
			decision.Action, decision.Reason, decision.NewPrice)
		s.logger.Logf(common.LevelInfo, "TEST MODE: would update machine %d to $%.4f/GPU/hr",
			m.ID, decision.NewPrice)

	default:
		s.logger.Logf(common.LevelInfo, "Action: %s | %s | New Price: $%.4f/GPU/hr",
			decision.Action, decision.Reason, decision.NewPrice)
		s.submitUpdate(ctx, m, decision)
	}

	s.record(ctx, cycleID, m, snap, decision)
	s.lastKnownPrice[m.ID] = decision.NewPrice
}

// submitUpdate pushes the new price to the marketplace. No retries: a
// rejected or failed update is logged and the cycle moves on.
func (s *Service) submitUpdate(ctx context.Context, m market.Machine, decision pricing.Decision) {
	if err := s.marketplace.SetMinimumBidPrice(ctx, m.ID, decision.NewPrice); err != nil {
		var rejected *market.UpdateRejectedError
		if errors.As(err, &rejected) {
			// Marketplace diagnostic logged verbatim.
			s.logger.Logf(common.LevelError, "FAILED: could not update machine %d: %s", m.ID, rejected.Message)
		} else {
			s.logger.Logf(common.LevelError, "FAILED: could not update machine %d: %v", m.ID, err)
		}
		s.metrics.ObserveUpdate(false)
		return
	}
	s.logger.Logf(common.LevelInfo, "SUCCESS: updated machine %d to $%.4f/GPU/hr", m.ID, decision.NewPrice)
	s.metrics.ObserveUpdate(true)
}

func (s *Service) logMarket(m market.Machine, snap market.Snapshot) {
	if snap.TotalCount == 0 {
		s.logger.Log(common.LevelWarn, "No comparable offers found in market")
		return
	}

	s.logger.Logf(common.LevelInfo, "Market: %d comparable offers (%d rented, %d verified) | Demand: %.1f%%",
		snap.TotalCount, snap.RentedCount, snap.VerifiedCount, snap.DemandPercent)

	if snap.HasPriceData() {
		s.logger.Logf(common.LevelInfo, "Market prices | Median=$%.4f, Avg=$%.4f, Min=$%.4f",
			*snap.MedianPrice, *snap.AveragePrice, *snap.MinPrice)
		if m.Verified && snap.MinVerifiedPrice != nil {
			s.logger.Logf(common.LevelInfo, "Verified market minimum: $%.4f", *snap.MinVerifiedPrice)
		}
		s.logger.Logf(common.LevelInfo, "Your price position: %s", pricing.PricePosition(m.CurrentPrice, snap))
	} else {
		s.logger.Log(common.LevelWarn, "No usable price data among comparable offers")
	}
}

// record appends the decision to the history repository. Best-effort:
// failures are logged and never interrupt the cycle.
func (s *Service) record(ctx context.Context, cycleID string, m market.Machine, snap market.Snapshot, decision pricing.Decision) {
	if s.recorder == nil {
		return
	}
	rec := &pricing.DecisionRecord{
		CycleID:       cycleID,
		MachineID:     m.ID,
		GPUName:       m.GPUName,
		NumGPUs:       m.NumGPUs,
		DemandPercent: snap.DemandPercent,
		PreviousPrice: m.CurrentPrice,
		NewPrice:      decision.NewPrice,
		Action:        decision.Action,
		Reason:        decision.Reason,
		TestMode:      s.opts.TestMode,
		RecordedAt:    s.clock.Now(),
	}
	if err := s.recorder.RecordDecision(ctx, rec); err != nil {
		s.logger.Logf(common.LevelWarn, "Failed to record decision for machine %d: %v", m.ID, err)
	}
}
