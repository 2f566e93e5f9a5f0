package pricing

import "github.com/hostlabs/gpupricer-go/internal/domain/market"

// PricePosition describes where a price sits relative to the market.
// Used for log lines only; the decision path never reads it.
func PricePosition(currentPrice float64, snap market.Snapshot) string {
	if snap.MedianPrice == nil || snap.MinPrice == nil {
		return "Unknown"
	}
	switch {
	case currentPrice > *snap.MedianPrice:
		return "Above median"
	case currentPrice > *snap.MinPrice:
		return "Competitive"
	default:
		return "Below market"
	}
}
