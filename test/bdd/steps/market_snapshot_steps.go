package steps

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/cucumber/godog"

	"github.com/hostlabs/gpupricer-go/internal/domain/market"
)

type marketSnapshotContext struct {
	offers   []market.Offer
	snapshot market.Snapshot
	built    bool
}

func (mc *marketSnapshotContext) reset() {
	mc.offers = nil
	mc.snapshot = market.Snapshot{}
	mc.built = false
}

func (mc *marketSnapshotContext) comparableOffers(table *godog.Table) error {
	mc.offers = nil
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header
		}
		price, err := strconv.ParseFloat(row.Cells[1].Value, 64)
		if err != nil {
			return fmt.Errorf("bad price %q: %w", row.Cells[1].Value, err)
		}
		mc.offers = append(mc.offers, market.Offer{
			Rented:       row.Cells[0].Value == "yes",
			PricePerHour: price,
			Verified:     len(row.Cells) > 2 && row.Cells[2].Value == "yes",
		})
	}
	return nil
}

func (mc *marketSnapshotContext) anEmptyMarket() error {
	mc.offers = nil
	return nil
}

func (mc *marketSnapshotContext) iBuildTheMarketSnapshot() error {
	mc.snapshot = market.BuildSnapshot(mc.offers)
	mc.built = true
	return nil
}

func (mc *marketSnapshotContext) demandShouldBe(expected float64) error {
	if !mc.built {
		return fmt.Errorf("snapshot was not built")
	}
	if mc.snapshot.DemandPercent != expected {
		return fmt.Errorf("expected demand %.1f%%, got %.1f%%", expected, mc.snapshot.DemandPercent)
	}
	return nil
}

func (mc *marketSnapshotContext) statShouldBe(stat string, expected float64) error {
	var got *float64
	switch stat {
	case "median":
		got = mc.snapshot.MedianPrice
	case "average":
		got = mc.snapshot.AveragePrice
	case "minimum":
		got = mc.snapshot.MinPrice
	default:
		return fmt.Errorf("unknown statistic %q", stat)
	}
	if got == nil {
		return fmt.Errorf("%s price is absent", stat)
	}
	if math.Abs(*got-expected) > 1e-9 {
		return fmt.Errorf("expected %s price %.4f, got %.4f", stat, expected, *got)
	}
	return nil
}

func (mc *marketSnapshotContext) snapshotShouldHaveNoPriceData() error {
	if mc.snapshot.HasPriceData() {
		return fmt.Errorf("snapshot unexpectedly has price data")
	}
	return nil
}

// RegisterMarketSnapshotSteps registers the snapshot builder step definitions.
func RegisterMarketSnapshotSteps(sc *godog.ScenarioContext) {
	ctx := &marketSnapshotContext{}

	sc.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		ctx.reset()
		return c, nil
	})

	sc.Step(`^comparable offers:$`, ctx.comparableOffers)
	sc.Step(`^an empty market$`, ctx.anEmptyMarket)
	sc.Step(`^I build the market snapshot$`, ctx.iBuildTheMarketSnapshot)
	sc.Step(`^the demand should be ([\d.]+)%$`, ctx.demandShouldBe)
	sc.Step(`^the (median|average|minimum) price should be \$([\d.]+)$`, ctx.statShouldBe)
	sc.Step(`^the snapshot should have no price data$`, ctx.snapshotShouldHaveNoPriceData)
}
