package pipeline

import (
	"fmt"
	"time"

	"github.com/jdkatz21/Prediction-Markets-Public/internal/model"
)

// AggregationPolicy selects how intraday trades collapse into a daily price.
type AggregationPolicy string

const (
	// AggregateLastTrade uses the chronologically last trade of the day.
	AggregateLastTrade AggregationPolicy = "last_trade"
	// AggregateVWAP uses the size-weighted mean of the day's trades.
	AggregateVWAP AggregationPolicy = "vwap"
)

// Convention selects how daily prices map to bin probabilities.
type Convention string

const (
	// ConventionCumulative treats price as P(outcome >= bin); bin mass is the
	// discrete derivative of the price curve.
	ConventionCumulative Convention = "cumulative"
	// ConventionDirect treats price as the bucket mass itself.
	ConventionDirect Convention = "direct"
)

// ExcludedBin names one (family, bin) combination dropped outright as a
// data-quality correction.
type ExcludedBin struct {
	Family string
	BinKey float64
}

// Settings holds the per-market-type conventions consumed by the stages.
type Settings struct {
	Name        string            // Market type label (e.g., "fed_levels")
	Aggregation AggregationPolicy // Daily aggregation policy
	Convention  Convention        // Price-to-probability convention

	// StrikeInterval is the spacing used to place the synthetic low-end bin
	// below the lowest strike (cumulative convention only).
	StrikeInterval float64

	// WindowDays truncates each bin's observation window to the given number
	// of days immediately preceding the family's expiry. 0 keeps everything.
	WindowDays int

	// HorizonTrimDays drops contract-days farther than the given number of
	// days from expiry after smoothing. 0 keeps everything.
	HorizonTrimDays int

	// ExcludedBins are known-bad (family, bin) combinations removed before
	// gap filling.
	ExcludedBins []ExcludedBin

	// MaxSmoothPasses bounds the smoother's fixed-point iteration.
	MaxSmoothPasses int

	// Location is the reference time zone for trade-day assignment.
	Location *time.Location
}

// DefaultMaxSmoothPasses bounds the smoother when Settings leaves it unset.
// Convergence takes at most one pass per bin, so this is generous.
const DefaultMaxSmoothPasses = 100

// Validate checks the settings for contradictions before a run.
func (s Settings) Validate() error {
	switch s.Aggregation {
	case AggregateLastTrade, AggregateVWAP:
	default:
		return fmt.Errorf("settings %q: unknown aggregation policy %q", s.Name, s.Aggregation)
	}

	switch s.Convention {
	case ConventionCumulative:
		if s.StrikeInterval <= 0 {
			return fmt.Errorf("settings %q: cumulative convention requires a positive strike interval", s.Name)
		}
	case ConventionDirect:
	default:
		return fmt.Errorf("settings %q: unknown convention %q", s.Name, s.Convention)
	}

	if s.WindowDays < 0 {
		return fmt.Errorf("settings %q: window_days must be >= 0", s.Name)
	}
	if s.HorizonTrimDays < 0 {
		return fmt.Errorf("settings %q: horizon_trim_days must be >= 0", s.Name)
	}
	return nil
}

func (s Settings) maxSmoothPasses() int {
	if s.MaxSmoothPasses > 0 {
		return s.MaxSmoothPasses
	}
	return DefaultMaxSmoothPasses
}

func (s Settings) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}

func (s Settings) excluded(family string, bin float64) bool {
	for _, ex := range s.ExcludedBins {
		if ex.Family == family && ex.BinKey == bin {
			return true
		}
	}
	return false
}

// Result is the output of one pipeline run over a single market type.
type Result struct {
	Series        []model.ContractSeries
	Distributions []model.DistributionRow
	Moments       []model.MomentSummary
	Stats         RunStats
}

// RunStats counts data-quality events over a run.
type RunStats struct {
	TradesIn         int // Raw records received
	MalformedDropped int // Records dropped for unparseable tickers
	FamiliesIn       int // Families seen after normalization
	FamiliesFailed   int // Families abandoned due to a partition error
	ZeroMassDropped  int // Contract-days dropped for zero total mass
}
