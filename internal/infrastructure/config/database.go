package config

import "time"

// DatabaseConfig holds decision-history database configuration.
// The default is a local SQLite file; PostgreSQL is supported for operators
// running several pricers against one database.
type DatabaseConfig struct {
	// Type: sqlite or postgres
	Type string `mapstructure:"type" validate:"required,oneof=sqlite postgres"`

	// Path for SQLite (file path or ":memory:")
	Path string `mapstructure:"path"`

	// URL is a full PostgreSQL connection string; overrides the fields below
	URL string `mapstructure:"url"`

	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`

	Pool PoolConfig `mapstructure:"pool"`
}

// PoolConfig holds connection pool settings (PostgreSQL only).
type PoolConfig struct {
	MaxOpen     int           `mapstructure:"max_open"`
	MaxIdle     int           `mapstructure:"max_idle"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
}
