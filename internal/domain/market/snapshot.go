package market

import (
	"sort"

	"github.com/hostlabs/gpupricer-go/pkg/utils"
)

// NeutralDemandPercent is emitted when zero comparable offers are found.
// It signals "insufficient market data", not a literal fifty-percent demand.
const NeutralDemandPercent = 50.0

// Snapshot is an immutable statistical summary of the comparable offers for
// one (gpuName, numGPUs) pair at a point in time.
//
// Price statistics are computed only over available offers with a positive
// price; they are nil when no such offers exist, even if TotalCount > 0.
type Snapshot struct {
	DemandPercent float64
	AveragePrice  *float64
	MedianPrice   *float64
	MinPrice      *float64
	RentedCount   int
	TotalCount    int

	// Verified-segment statistics are advisory, used for logging only.
	// The pricing policy never reads them.
	VerifiedCount    int
	MinVerifiedPrice *float64
}

// HasPriceData reports whether the snapshot carries the statistics the
// pricing policy needs. When false the policy falls back to step pricing.
func (s Snapshot) HasPriceData() bool {
	return s.MedianPrice != nil && s.AveragePrice != nil
}

// BuildSnapshot reduces a raw list of comparable offers into a Snapshot.
// The offers are expected to be pre-filtered by the marketplace search
// (matching GPU model and count); this function does no matching of its own.
// Pure transformation, no side effects.
func BuildSnapshot(offers []Offer) Snapshot {
	snap := Snapshot{
		DemandPercent: NeutralDemandPercent,
		TotalCount:    len(offers),
	}

	if len(offers) == 0 {
		return snap
	}

	var prices []float64
	var verifiedMin float64
	for _, offer := range offers {
		if offer.Rented {
			snap.RentedCount++
		}
		if offer.Verified {
			snap.VerifiedCount++
		}
		// Non-positive prices are data errors, not zero-price competitors.
		if offer.Rented || offer.PricePerHour <= 0 {
			continue
		}
		prices = append(prices, offer.PricePerHour)
		if offer.Verified && (verifiedMin == 0 || offer.PricePerHour < verifiedMin) {
			verifiedMin = offer.PricePerHour
		}
	}

	snap.DemandPercent = utils.RoundTo(100*float64(snap.RentedCount)/float64(snap.TotalCount), 1)

	if len(prices) == 0 {
		return snap
	}

	sort.Float64s(prices)

	avg := utils.RoundTo(mean(prices), 4)
	med := utils.RoundTo(median(prices), 4)
	min := utils.RoundTo(prices[0], 4)
	snap.AveragePrice = &avg
	snap.MedianPrice = &med
	snap.MinPrice = &min

	if verifiedMin > 0 {
		vm := utils.RoundTo(verifiedMin, 4)
		snap.MinVerifiedPrice = &vm
	}

	return snap
}

func mean(sorted []float64) float64 {
	var sum float64
	for _, p := range sorted {
		sum += p
	}
	return sum / float64(len(sorted))
}

// median averages the two central values for even-length sets.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
