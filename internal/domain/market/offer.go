package market

// Offer is a third-party marketplace listing comparable to one of our
// machines (same GPU model and count). Offers are fetched fresh on every
// search and never persisted.
type Offer struct {
	Rented       bool
	PricePerHour float64
	Verified     bool
	Reliability  float64
}

// Machine is one of the operator's own hosted listings. It is read fresh
// from the marketplace each cycle; the pricer never mutates it directly and
// only requests price changes through the Marketplace port.
type Machine struct {
	ID           int
	GPUName      string
	NumGPUs      int
	CurrentPrice float64
	IsRented     bool
	Verified     bool
	Reliability  float64
}

// Status returns the rental status label used in log lines.
func (m Machine) Status() string {
	if m.IsRented {
		return "RENTED"
	}
	return "AVAILABLE"
}
