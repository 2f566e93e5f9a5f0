package market

import (
	"errors"
	"fmt"
)

// ErrMarketplaceUnavailable is returned when the marketplace cannot be
// reached or returns a malformed response. Never fatal to the pricing loop.
var ErrMarketplaceUnavailable = errors.New("marketplace unavailable")

// UpdateRejectedError is returned when the marketplace declines a price
// change (permission or validation). The Message is the marketplace's own
// diagnostic and is logged verbatim.
type UpdateRejectedError struct {
	MachineID int
	Message   string
}

func (e *UpdateRejectedError) Error() string {
	return fmt.Sprintf("price update rejected for machine %d: %s", e.MachineID, e.Message)
}
