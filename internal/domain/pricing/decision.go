package pricing

// Action is the outcome tag of a pricing decision.
type Action string

const (
	ActionHold     Action = "HOLD"
	ActionIncrease Action = "INCREASE"
	ActionDecrease Action = "DECREASE"
)

// Decision is the output of one policy evaluation: the price to set, what
// kind of change it is, and a human-readable justification citing the
// observed demand percent and the rule applied.
type Decision struct {
	NewPrice float64
	Action   Action
	Reason   string
}

// Changed reports whether the decision calls for a price update.
func (d Decision) Changed() bool {
	return d.Action != ActionHold
}
