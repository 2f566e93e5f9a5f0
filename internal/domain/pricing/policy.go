package pricing

import (
	"fmt"

	"github.com/hostlabs/gpupricer-go/internal/domain/market"
	"github.com/hostlabs/gpupricer-go/pkg/utils"
)

// Params holds the caller-supplied pricing bounds and thresholds. They are
// validated at startup (config layer); the policy assumes they are sane.
type Params struct {
	BasePrice   float64 // price floor, $/GPU/hr
	MaxPrice    float64 // price ceiling, >= BasePrice
	StepPercent float64 // fallback step when no market data, e.g. 10 for 10%
	HighDemand  float64 // demand percent at or above which demand is high
	LowDemand   float64 // demand percent at or below which demand is low
}

// Policy maps (current price, market snapshot) to a price decision.
//
// This is a domain service with no infrastructure dependencies. Decide is
// stateless, deterministic, and never panics on normal numeric input.
type Policy struct {
	params Params

	// Target multipliers per demand tier.
	highMultiplier   float64 // fraction of market median on high demand
	mediumMultiplier float64 // fraction of market median on medium demand
	lowMultiplier    float64 // fraction of market minimum on low demand

	// Medium-demand changes smaller than this fraction of the current price
	// are suppressed to prevent oscillation on market noise.
	hysteresisBand float64
}

// NewPolicy creates a policy with the standard tier multipliers:
// 95% of median on high demand, 90% of median on medium demand,
// 85% of minimum on low demand, with a 5% hysteresis band.
func NewPolicy(params Params) *Policy {
	return &Policy{
		params:           params,
		highMultiplier:   0.95,
		mediumMultiplier: 0.90,
		lowMultiplier:    0.85,
		hysteresisBand:   0.05,
	}
}

// Decide computes the pricing decision for one machine given the current
// market snapshot. The returned price is always within
// [BasePrice, MaxPrice] and rounded to 4 decimal places.
func (p *Policy) Decide(currentPrice float64, snap market.Snapshot) Decision {
	if !snap.HasPriceData() {
		return p.decideWithoutMarketData(currentPrice, snap.DemandPercent)
	}

	demand := snap.DemandPercent
	switch {
	case demand >= p.params.HighDemand:
		return p.decideHighDemand(currentPrice, demand, *snap.MedianPrice)
	case demand <= p.params.LowDemand:
		return p.decideLowDemand(currentPrice, demand, *snap.MinPrice)
	default:
		return p.decideMediumDemand(currentPrice, demand, *snap.MedianPrice)
	}
}

// decideHighDemand prices just under the market median. It never decreases:
// if the median has dropped below our price we hold rather than chase it
// down, an intentional policy choice.
func (p *Policy) decideHighDemand(current, demand, median float64) Decision {
	target := p.clamp(median * p.highMultiplier)
	if target > current {
		return Decision{
			NewPrice: target,
			Action:   ActionIncrease,
			Reason:   fmt.Sprintf("High demand (%.1f%%) - pricing at 95%% of market median", demand),
		}
	}
	return Decision{
		NewPrice: current,
		Action:   ActionHold,
		Reason:   fmt.Sprintf("High demand (%.1f%%) - median target at or below current price, holding", demand),
	}
}

// decideLowDemand undercuts the cheapest available offer. It never
// increases on low demand.
func (p *Policy) decideLowDemand(current, demand, min float64) Decision {
	target := p.clamp(min * p.lowMultiplier)
	if target < current {
		return Decision{
			NewPrice: target,
			Action:   ActionDecrease,
			Reason:   fmt.Sprintf("Low demand (%.1f%%) - pricing at 85%% of market minimum", demand),
		}
	}
	return Decision{
		NewPrice: current,
		Action:   ActionHold,
		Reason:   fmt.Sprintf("Low demand (%.1f%%) - minimum target at or above current price, holding", demand),
	}
}

// decideMediumDemand aligns with the market median, but only applies moves
// larger than the hysteresis band.
func (p *Policy) decideMediumDemand(current, demand, median float64) Decision {
	target := p.clamp(median * p.mediumMultiplier)
	diff := target - current
	if diff < 0 {
		diff = -diff
	}
	if diff <= p.hysteresisBand*current {
		return Decision{
			NewPrice: current,
			Action:   ActionHold,
			Reason:   fmt.Sprintf("Medium demand (%.1f%%) - within 5%% of market median target, holding", demand),
		}
	}
	action := ActionIncrease
	if target < current {
		action = ActionDecrease
	}
	return Decision{
		NewPrice: target,
		Action:   action,
		Reason:   fmt.Sprintf("Medium demand (%.1f%%) - aligning with market median", demand),
	}
}

// decideWithoutMarketData is the fallback when the snapshot has no usable
// price statistics: step the price by the configured percentage toward the
// relevant bound, or hold on medium demand.
func (p *Policy) decideWithoutMarketData(current, demand float64) Decision {
	step := p.params.StepPercent / 100
	switch {
	case demand >= p.params.HighDemand:
		newPrice := current * (1 + step)
		if newPrice > p.params.MaxPrice {
			newPrice = p.params.MaxPrice
		}
		return Decision{
			NewPrice: utils.RoundTo(newPrice, 4),
			Action:   ActionIncrease,
			Reason:   fmt.Sprintf("High demand (%.1f%%) with no market data - stepping price up %g%%", demand, p.params.StepPercent),
		}
	case demand <= p.params.LowDemand:
		newPrice := current * (1 - step)
		if newPrice < p.params.BasePrice {
			newPrice = p.params.BasePrice
		}
		return Decision{
			NewPrice: utils.RoundTo(newPrice, 4),
			Action:   ActionDecrease,
			Reason:   fmt.Sprintf("Low demand (%.1f%%) with no market data - stepping price down %g%%", demand, p.params.StepPercent),
		}
	default:
		return Decision{
			NewPrice: current,
			Action:   ActionHold,
			Reason:   fmt.Sprintf("Medium demand (%.1f%%) with no market data - holding current price", demand),
		}
	}
}

// clamp caps at MaxPrice first, then floors at BasePrice, and rounds the
// result to 4 decimal places.
func (p *Policy) clamp(price float64) float64 {
	return utils.RoundTo(utils.Clamp(price, p.params.BasePrice, p.params.MaxPrice), 4)
}
