package market

import "context"

// Marketplace is the outbound port to the GPU rental marketplace.
// This is implemented in the adapter layer (api).
type Marketplace interface {
	// ListOwnMachines returns all of the operator's hosted machines.
	// An empty result means "nothing to do", not an error.
	ListOwnMachines(ctx context.Context) ([]Machine, error)

	// SearchComparableOffers returns third-party listings matching the GPU
	// model and count, restricted to hosts at or above minReliability.
	// An empty result is valid input to BuildSnapshot.
	SearchComparableOffers(ctx context.Context, gpuName string, numGPUs int, minReliability float64) ([]Offer, error)

	// SetMinimumBidPrice submits a price change for one machine.
	// A marketplace-side rejection is returned as *UpdateRejectedError.
	SetMinimumBidPrice(ctx context.Context, machineID int, newPrice float64) error
}
