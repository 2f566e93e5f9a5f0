package pricing_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hostlabs/gpupricer-go/internal/domain/market"
	"github.com/hostlabs/gpupricer-go/internal/domain/pricing"
)

func defaultParams() pricing.Params {
	return pricing.Params{
		BasePrice:   0.40,
		MaxPrice:    1.50,
		StepPercent: 10,
		HighDemand:  80,
		LowDemand:   30,
	}
}

func floatPtr(v float64) *float64 { return &v }

func snapshot(demand float64, avg, median, min *float64) market.Snapshot {
	return market.Snapshot{
		DemandPercent: demand,
		AveragePrice:  avg,
		MedianPrice:   median,
		MinPrice:      min,
		TotalCount:    10,
	}
}

func TestDecide_HighDemandIncreasesTowardMedian(t *testing.T) {
	// Arrange - spec scenario: median 0.80 at 85% demand
	policy := pricing.NewPolicy(defaultParams())
	snap := snapshot(85, floatPtr(0.78), floatPtr(0.80), floatPtr(0.55))

	// Act
	decision := policy.Decide(0.50, snap)

	// Assert - 0.80 * 0.95 = 0.76, within bounds, above current
	assert.Equal(t, pricing.ActionIncrease, decision.Action)
	assert.InDelta(t, 0.76, decision.NewPrice, 1e-9)
	assert.Contains(t, decision.Reason, "High demand (85.0%)")
	assert.Contains(t, decision.Reason, "95% of market median")
}

func TestDecide_HighDemandNeverDecreases(t *testing.T) {
	// Median dropped below our price: hold rather than chase it down
	policy := pricing.NewPolicy(defaultParams())
	snap := snapshot(90, floatPtr(0.45), floatPtr(0.45), floatPtr(0.41))

	decision := policy.Decide(1.00, snap)

	assert.Equal(t, pricing.ActionHold, decision.Action)
	assert.Equal(t, 1.00, decision.NewPrice)
	assert.Contains(t, decision.Reason, "High demand (90.0%)")
}

func TestDecide_LowDemandDecreasesTowardMinimum(t *testing.T) {
	// Arrange - spec scenario: min 0.50 at 25% demand
	policy := pricing.NewPolicy(defaultParams())
	snap := snapshot(25, floatPtr(0.56), floatPtr(0.55), floatPtr(0.50))

	// Act
	decision := policy.Decide(0.50, snap)

	// Assert - 0.50 * 0.85 = 0.425 < 0.50
	assert.Equal(t, pricing.ActionDecrease, decision.Action)
	assert.InDelta(t, 0.425, decision.NewPrice, 1e-9)
	assert.Contains(t, decision.Reason, "Low demand (25.0%)")
	assert.Contains(t, decision.Reason, "85% of market minimum")
}

func TestDecide_LowDemandNeverIncreases(t *testing.T) {
	// Market minimum above our price: hold, never raise on low demand
	policy := pricing.NewPolicy(defaultParams())
	snap := snapshot(10, floatPtr(1.30), floatPtr(1.30), floatPtr(1.20))

	decision := policy.Decide(0.50, snap)

	assert.Equal(t, pricing.ActionHold, decision.Action)
	assert.Equal(t, 0.50, decision.NewPrice)
}

func TestDecide_MediumDemandAlignsWithMedian(t *testing.T) {
	policy := pricing.NewPolicy(defaultParams())
	snap := snapshot(50, floatPtr(1.00), floatPtr(1.00), floatPtr(0.80))

	decision := policy.Decide(0.70, snap)

	// 1.00 * 0.90 = 0.90, diff 0.20 > 5% of 0.70
	assert.Equal(t, pricing.ActionIncrease, decision.Action)
	assert.InDelta(t, 0.90, decision.NewPrice, 1e-9)
	assert.Contains(t, decision.Reason, "Medium demand (50.0%)")
}

func TestDecide_MediumDemandHysteresis(t *testing.T) {
	policy := pricing.NewPolicy(defaultParams())

	tests := []struct {
		name    string
		median  float64
		current float64
	}{
		{"target slightly above current", 1.15, 1.00},  // target 1.035, diff 0.035
		{"target slightly below current", 1.062, 1.00}, // target 0.9558, diff 0.0442
		{"target equals current", 1.00, 0.90},          // target 0.90, diff 0
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := snapshot(50, floatPtr(tt.median), floatPtr(tt.median), floatPtr(0.50))

			decision := policy.Decide(tt.current, snap)

			assert.Equal(t, pricing.ActionHold, decision.Action)
			assert.Equal(t, tt.current, decision.NewPrice)
		})
	}
}

func TestDecide_ClampsToMaxPrice(t *testing.T) {
	policy := pricing.NewPolicy(defaultParams())
	snap := snapshot(95, floatPtr(3.00), floatPtr(3.00), floatPtr(2.50))

	decision := policy.Decide(0.50, snap)

	assert.Equal(t, pricing.ActionIncrease, decision.Action)
	assert.Equal(t, 1.50, decision.NewPrice)
}

func TestDecide_ClampsToBasePrice(t *testing.T) {
	policy := pricing.NewPolicy(defaultParams())
	snap := snapshot(5, floatPtr(0.42), floatPtr(0.42), floatPtr(0.41))

	decision := policy.Decide(0.60, snap)

	// 0.41 * 0.85 = 0.3485 floors at 0.40
	assert.Equal(t, pricing.ActionDecrease, decision.Action)
	assert.Equal(t, 0.40, decision.NewPrice)
}

func TestDecide_FallbackWithoutMarketData(t *testing.T) {
	policy := pricing.NewPolicy(defaultParams())

	tests := []struct {
		name      string
		demand    float64
		current   float64
		wantPrice float64
		want      pricing.Action
	}{
		{"high demand steps up", 85, 1.00, 1.10, pricing.ActionIncrease},
		{"high demand capped at max", 85, 1.45, 1.50, pricing.ActionIncrease},
		{"low demand steps down", 20, 1.00, 0.90, pricing.ActionDecrease},
		{"low demand floored at base", 20, 0.42, 0.40, pricing.ActionDecrease},
		{"medium demand holds", 50, 1.00, 1.00, pricing.ActionHold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := market.Snapshot{DemandPercent: tt.demand}

			decision := policy.Decide(tt.current, snap)

			assert.Equal(t, tt.want, decision.Action)
			assert.InDelta(t, tt.wantPrice, decision.NewPrice, 1e-9)
			assert.Contains(t, decision.Reason, "no market data")
		})
	}
}

func TestDecide_FallbackActivatesIffStatisticAbsent(t *testing.T) {
	policy := pricing.NewPolicy(defaultParams())

	// Median present but average absent: still fallback
	snap := snapshot(85, nil, floatPtr(0.80), floatPtr(0.55))
	decision := policy.Decide(0.50, snap)
	assert.Contains(t, decision.Reason, "no market data")

	// Average present but median absent: still fallback
	snap = snapshot(85, floatPtr(0.80), nil, floatPtr(0.55))
	decision = policy.Decide(0.50, snap)
	assert.Contains(t, decision.Reason, "no market data")

	// Both present: market branch
	snap = snapshot(85, floatPtr(0.80), floatPtr(0.80), floatPtr(0.55))
	decision = policy.Decide(0.50, snap)
	assert.NotContains(t, decision.Reason, "no market data")
}

func TestDecide_NeutralSnapshotHolds(t *testing.T) {
	// Zero comparable offers: neutral demand, no price data, medium fallback
	policy := pricing.NewPolicy(defaultParams())
	snap := market.BuildSnapshot(nil)

	decision := policy.Decide(0.75, snap)

	assert.Equal(t, pricing.ActionHold, decision.Action)
	assert.Equal(t, 0.75, decision.NewPrice)
}

func TestDecide_IdempotentWhenPriceAtTarget(t *testing.T) {
	policy := pricing.NewPolicy(defaultParams())

	tests := []struct {
		name    string
		demand  float64
		median  float64
		min     float64
		current float64
	}{
		{"high demand at target", 90, 1.00, 0.80, 0.95},   // target 0.95
		{"low demand at target", 10, 1.00, 1.00, 0.85},    // target 0.85
		{"medium demand at target", 50, 1.00, 0.80, 0.90}, // target 0.90
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := snapshot(tt.demand, floatPtr(tt.median), floatPtr(tt.median), floatPtr(tt.min))

			decision := policy.Decide(tt.current, snap)

			assert.Equal(t, pricing.ActionHold, decision.Action)
			assert.Equal(t, tt.current, decision.NewPrice)
		})
	}
}

func TestDecide_PriceAlwaysWithinBounds(t *testing.T) {
	policy := pricing.NewPolicy(defaultParams())
	params := defaultParams()

	demands := []float64{0, 10, 30, 50, 80, 95, 100}
	medians := []float64{0.01, 0.40, 0.90, 1.50, 5.00}
	currents := []float64{0.40, 0.75, 1.50}

	for _, demand := range demands {
		for _, median := range medians {
			for _, current := range currents {
				name := fmt.Sprintf("demand=%v median=%v current=%v", demand, median, current)
				snap := snapshot(demand, floatPtr(median), floatPtr(median), floatPtr(median*0.9))

				decision := policy.Decide(current, snap)

				assert.GreaterOrEqual(t, decision.NewPrice, params.BasePrice, name)
				assert.LessOrEqual(t, decision.NewPrice, params.MaxPrice, name)
			}
		}
	}
}

func TestDecide_ReasonCitesDemandPercent(t *testing.T) {
	policy := pricing.NewPolicy(defaultParams())
	snap := snapshot(42.5, floatPtr(1.00), floatPtr(1.00), floatPtr(0.80))

	decision := policy.Decide(0.50, snap)

	assert.Contains(t, decision.Reason, "42.5%")
}

func TestPricePosition(t *testing.T) {
	snap := snapshot(50, floatPtr(1.00), floatPtr(1.00), floatPtr(0.60))

	assert.Equal(t, "Above median", pricing.PricePosition(1.20, snap))
	assert.Equal(t, "Competitive", pricing.PricePosition(0.80, snap))
	assert.Equal(t, "Below market", pricing.PricePosition(0.50, snap))
	assert.Equal(t, "Unknown", pricing.PricePosition(0.50, market.Snapshot{DemandPercent: 50}))
}
