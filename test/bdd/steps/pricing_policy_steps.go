package steps

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/cucumber/godog"

	"github.com/hostlabs/gpupricer-go/internal/domain/market"
	"github.com/hostlabs/gpupricer-go/internal/domain/pricing"
)

type pricingPolicyContext struct {
	params       pricing.Params
	snapshot     market.Snapshot
	currentPrice float64
	decision     pricing.Decision
	decided      bool
}

func (pc *pricingPolicyContext) reset() {
	pc.params = pricing.Params{}
	pc.snapshot = market.Snapshot{}
	pc.currentPrice = 0
	pc.decision = pricing.Decision{}
	pc.decided = false
}

func (pc *pricingPolicyContext) pricingBounds(base, max, step float64) error {
	pc.params.BasePrice = base
	pc.params.MaxPrice = max
	pc.params.StepPercent = step
	return nil
}

func (pc *pricingPolicyContext) demandThresholds(high, low float64) error {
	pc.params.HighDemand = high
	pc.params.LowDemand = low
	return nil
}

func (pc *pricingPolicyContext) currentPriceIs(price float64) error {
	pc.currentPrice = price
	return nil
}

func (pc *pricingPolicyContext) marketSnapshotWithStats(demand, median, average, min float64) error {
	pc.snapshot = market.Snapshot{
		DemandPercent: demand,
		MedianPrice:   &median,
		AveragePrice:  &average,
		MinPrice:      &min,
		TotalCount:    10,
	}
	return nil
}

func (pc *pricingPolicyContext) marketSnapshotWithoutPriceData(demand float64) error {
	pc.snapshot = market.Snapshot{DemandPercent: demand}
	return nil
}

func (pc *pricingPolicyContext) noComparableOffers() error {
	pc.snapshot = market.BuildSnapshot(nil)
	return nil
}

func (pc *pricingPolicyContext) iAskForAPricingDecision() error {
	policy := pricing.NewPolicy(pc.params)
	pc.decision = policy.Decide(pc.currentPrice, pc.snapshot)
	pc.decided = true
	return nil
}

func (pc *pricingPolicyContext) theActionShouldBe(action string) error {
	if !pc.decided {
		return fmt.Errorf("no decision was made")
	}
	if string(pc.decision.Action) != action {
		return fmt.Errorf("expected action %s, got %s (%s)", action, pc.decision.Action, pc.decision.Reason)
	}
	return nil
}

func (pc *pricingPolicyContext) theNewPriceShouldBe(price float64) error {
	if math.Abs(pc.decision.NewPrice-price) > 1e-9 {
		return fmt.Errorf("expected new price %.4f, got %.4f", price, pc.decision.NewPrice)
	}
	return nil
}

func (pc *pricingPolicyContext) theReasonShouldMention(text string) error {
	if !strings.Contains(pc.decision.Reason, text) {
		return fmt.Errorf("reason %q does not mention %q", pc.decision.Reason, text)
	}
	return nil
}

// RegisterPricingPolicySteps registers the pricing policy step definitions.
func RegisterPricingPolicySteps(sc *godog.ScenarioContext) {
	ctx := &pricingPolicyContext{}

	sc.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		ctx.reset()
		return c, nil
	})

	sc.Step(`^pricing bounds from \$([\d.]+) to \$([\d.]+) with a ([\d.]+)% fallback step$`, ctx.pricingBounds)
	sc.Step(`^demand thresholds of ([\d.]+)% high and ([\d.]+)% low$`, ctx.demandThresholds)
	sc.Step(`^my current price is \$([\d.]+)$`, ctx.currentPriceIs)
	sc.Step(`^a market snapshot with demand ([\d.]+)%, median \$([\d.]+), average \$([\d.]+) and minimum \$([\d.]+)$`, ctx.marketSnapshotWithStats)
	sc.Step(`^a market snapshot with demand ([\d.]+)% and no price data$`, ctx.marketSnapshotWithoutPriceData)
	sc.Step(`^a market with no comparable offers$`, ctx.noComparableOffers)
	sc.Step(`^I ask for a pricing decision$`, ctx.iAskForAPricingDecision)
	sc.Step(`^the action should be "([^"]*)"$`, ctx.theActionShouldBe)
	sc.Step(`^the new price should be \$([\d.]+)$`, ctx.theNewPriceShouldBe)
	sc.Step(`^the reason should mention "([^"]*)"$`, ctx.theReasonShouldMention)
}
