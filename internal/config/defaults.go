package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultTimezone        = "America/New_York"
	DefaultRestURL         = "https://api.elections.kalshi.com/trade-api/v2"
	DefaultAPITimeout      = 30 * time.Second
	DefaultMaxRetries      = 3
	DefaultPageLimit       = 1000
	DefaultTickerPause     = 1 * time.Second
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 10
	DefaultMinConns        = 2
	DefaultConcurrency     = 8
	DefaultMaxSmoothPasses = 100
	DefaultOutputDir       = "data/daily_distribution_data"
	DefaultServerPort      = 8080
)

func (c *Config) applyDefaults() {
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}

	// API defaults
	if c.API.RestURL == "" {
		c.API.RestURL = DefaultRestURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}
	if c.API.PageLimit == 0 {
		c.API.PageLimit = DefaultPageLimit
	}
	if c.API.TickerPause == 0 {
		c.API.TickerPause = DefaultTickerPause
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Pipeline defaults
	if c.Pipeline.Concurrency == 0 {
		c.Pipeline.Concurrency = DefaultConcurrency
	}
	if c.Pipeline.MaxSmoothPasses == 0 {
		c.Pipeline.MaxSmoothPasses = DefaultMaxSmoothPasses
	}
	if c.Pipeline.OutputDir == "" {
		c.Pipeline.OutputDir = DefaultOutputDir
	}

	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
}
