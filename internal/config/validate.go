package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone %q is not a valid location: %w", c.Timezone, err)
	}

	if c.Database.Enabled() {
		if err := c.Database.validate("database"); err != nil {
			return err
		}
	}

	if c.Pipeline.Concurrency < 1 {
		return errors.New("pipeline.concurrency must be >= 1")
	}
	if c.Pipeline.MaxSmoothPasses < 1 {
		return errors.New("pipeline.max_smooth_passes must be >= 1")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if len(c.MarketTypes) == 0 {
		return errors.New("at least one market_types entry is required")
	}
	seen := make(map[string]bool)
	for i, mt := range c.MarketTypes {
		prefix := fmt.Sprintf("market_types[%d]", i)
		if err := mt.validate(prefix); err != nil {
			return err
		}
		if seen[mt.Name] {
			return fmt.Errorf("%s: duplicate market type name %q", prefix, mt.Name)
		}
		seen[mt.Name] = true
	}

	return nil
}

func (mt *MarketTypeConfig) validate(prefix string) error {
	if mt.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if mt.TradesFile == "" {
		return fmt.Errorf("%s.trades_file is required", prefix)
	}

	switch mt.Aggregation {
	case "last_trade", "vwap":
	default:
		return fmt.Errorf("%s.aggregation must be \"last_trade\" or \"vwap\", got %q", prefix, mt.Aggregation)
	}

	switch mt.Convention {
	case "cumulative":
		if mt.StrikeInterval <= 0 {
			return fmt.Errorf("%s.strike_interval must be > 0 for the cumulative convention", prefix)
		}
	case "direct":
	default:
		return fmt.Errorf("%s.convention must be \"cumulative\" or \"direct\", got %q", prefix, mt.Convention)
	}

	if mt.WindowDays < 0 {
		return fmt.Errorf("%s.window_days must be >= 0", prefix)
	}
	if mt.HorizonTrimDays < 0 {
		return fmt.Errorf("%s.horizon_trim_days must be >= 0", prefix)
	}

	for family, date := range mt.HorizonOverrides {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return fmt.Errorf("%s.horizon_overrides[%s]: invalid date %q", prefix, family, date)
		}
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
