package config

// PricingConfig holds the pricing bounds, demand thresholds and filters.
// All prices are in $/GPU/hr; thresholds and steps are percentages.
type PricingConfig struct {
	// BasePrice is the price floor. Decisions never go below it.
	BasePrice float64 `mapstructure:"base_price" validate:"gte=0"`

	// MaxPrice is the price ceiling. Must be at or above BasePrice.
	MaxPrice float64 `mapstructure:"max_price" validate:"gtefield=BasePrice"`

	// PriceStepPercent is the step applied when no market data is available.
	PriceStepPercent float64 `mapstructure:"price_step_percent" validate:"gt=0,lte=100"`

	// HighDemandThreshold: demand percent at or above this is high demand.
	HighDemandThreshold float64 `mapstructure:"high_demand_threshold" validate:"gte=0,lte=100"`

	// LowDemandThreshold: demand percent at or below this is low demand.
	// Must be strictly below HighDemandThreshold.
	LowDemandThreshold float64 `mapstructure:"low_demand_threshold" validate:"gte=0,lte=100,ltfield=HighDemandThreshold"`

	// TargetGPUName limits repricing to machines with this GPU model
	// (exact match, e.g. "RTX_5090"). Empty matches all machines.
	TargetGPUName string `mapstructure:"target_gpu_name"`

	// TargetNumGPUs limits repricing to machines with this GPU count.
	// Zero matches all machines.
	TargetNumGPUs int `mapstructure:"target_num_gpus" validate:"gte=0"`

	// MinReliability filters the comparable-offer search.
	MinReliability float64 `mapstructure:"min_reliability" validate:"gte=0,lte=1"`

	// TestMode logs would-be changes without submitting them.
	TestMode bool `mapstructure:"test_mode"`
}
