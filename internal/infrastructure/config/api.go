package config

import "time"

// APIConfig holds marketplace API client configuration.
type APIConfig struct {
	// Base URL for the marketplace REST API
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// API key (bearer token). Also read from VAST_API_KEY.
	Key string `mapstructure:"key"`

	// Request timeout
	Timeout time.Duration `mapstructure:"timeout" validate:"required"`

	// Rate limiting settings
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Retry configuration
	Retry RetryConfig `mapstructure:"retry"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	// Maximum requests per second
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gt=0"`

	// Burst size for token bucket
	Burst int `mapstructure:"burst" validate:"min=1"`
}

// RetryConfig holds retry configuration for failed requests.
type RetryConfig struct {
	// Maximum number of retry attempts
	MaxAttempts int `mapstructure:"max_attempts" validate:"min=0"`

	// Base duration for exponential backoff
	BackoffBase time.Duration `mapstructure:"backoff_base"`
}
