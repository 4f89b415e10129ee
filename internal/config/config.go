package config

import "time"

// Config is the root configuration shared by the scraper, pipeline, and
// query server commands.
type Config struct {
	Timezone    string             `yaml:"timezone"` // Reference time zone for trade-day assignment
	API         APIConfig          `yaml:"api"`
	Database    DBConfig           `yaml:"database"`
	Pipeline    PipelineConfig     `yaml:"pipeline"`
	Server      ServerConfig       `yaml:"server"`
	MarketTypes []MarketTypeConfig `yaml:"market_types"`
}

// APIConfig holds exchange API settings for the trade scraper.
type APIConfig struct {
	RestURL        string        `yaml:"rest_url"`
	KeyID          string        `yaml:"key_id"`           // API key ID (KALSHI-ACCESS-KEY header)
	PrivateKeyPath string        `yaml:"private_key_path"` // Path to RSA private key PEM file
	Timeout        time.Duration `yaml:"timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	PageLimit      int           `yaml:"page_limit"`   // Trades per page when paginating
	TickerPause    time.Duration `yaml:"ticker_pause"` // Pause between tickers (rate limits)
}

// DBConfig holds the Postgres connection. Leaving Host empty disables
// database output; the pipeline then works with CSV artifacts only.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// Enabled reports whether database output is configured.
func (db DBConfig) Enabled() bool {
	return db.Host != ""
}

// PipelineConfig holds batch-run settings.
type PipelineConfig struct {
	Concurrency     int    `yaml:"concurrency"`       // Concurrent contract families
	MaxSmoothPasses int    `yaml:"max_smooth_passes"` // Smoother fixed-point safety cap
	OutputDir       string `yaml:"output_dir"`        // Directory for CSV artifacts
}

// ServerConfig holds the query server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// MarketTypeConfig declares the conventions of one market type (one trade
// archive): how its tickers aggregate into daily prices, how prices map to
// probabilities, and which data-quality corrections apply. All stages consume
// these records instead of branching on family names.
type MarketTypeConfig struct {
	Name    string   `yaml:"name"`    // e.g., "fed_levels"
	Tickers []string `yaml:"tickers"` // Scrape targets

	TradesFile string `yaml:"trades_file"` // Trade archive CSV

	Aggregation    string  `yaml:"aggregation"`     // "last_trade" or "vwap"
	Convention     string  `yaml:"convention"`      // "cumulative" or "direct"
	StrikeInterval float64 `yaml:"strike_interval"` // Synthetic-bin spacing (cumulative)

	WindowDays      int `yaml:"window_days"`       // Observation window before expiry; 0 = all
	HorizonTrimDays int `yaml:"horizon_trim_days"` // Drop days farther from expiry; 0 = all

	// ExcludedBins are known-bad (family, bin) combinations for specific
	// historical contract vintages, dropped outright.
	ExcludedBins []ExcludedBinConfig `yaml:"excluded_bins"`

	// HorizonOverrides pins a family's horizon date to the event calendar
	// (e.g., the FOMC meeting date) instead of its last trade day.
	HorizonOverrides map[string]string `yaml:"horizon_overrides"`
}

// ExcludedBinConfig names one excluded (family, bin) combination.
type ExcludedBinConfig struct {
	Family string  `yaml:"family"`
	Bin    float64 `yaml:"bin"`
}
