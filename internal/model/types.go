package model

import "github.com/google/uuid"

// -----------------------------------------------------------------------------
// Ingestion Types
// -----------------------------------------------------------------------------

// TradeRecord is one raw execution from the trade archive. Immutable once
// created by ingestion.
type TradeRecord struct {
	TradeID   uuid.UUID // Primary key (from the exchange)
	Ticker    string    // Full market ticker (e.g., "FED-25SEP-T4.00")
	CreatedTS int64     // Execution time (µs since epoch)
	Price     int       // YES price in cents (0-100)
	Size      int       // Number of contracts
	TakerSide bool      // true = YES taker, false = NO taker
}

// NormalizedTrade is a TradeRecord with its derived grouping fields: the
// contract family shared by all strikes of one event, the numeric outcome
// level priced by this ticker, and the calendar day of execution.
type NormalizedTrade struct {
	Family    string  // Contract family (ticker prefix, e.g., "FED-25SEP")
	BinKey    float64 // Outcome level (ticker suffix, e.g., 4.00)
	Day       Day     // Calendar day in the reference time zone
	CreatedTS int64   // Execution time (µs since epoch), for last-trade ordering
	Price     int     // YES price in cents (0-100)
	Size      int     // Number of contracts
}

// -----------------------------------------------------------------------------
// Daily Table Types
// -----------------------------------------------------------------------------

// DailyObservation is one price observation per (family, bin, day).
// Produced by the aggregator from real trades, and by the gap filler for
// carried-forward days (Filled = true, Volume = 0).
type DailyObservation struct {
	Family string
	BinKey float64
	Day    Day
	Price  float64 // Daily price in cents; fractional under the vwap policy
	Volume int64   // Sum of trade sizes that day; 0 on filled days
	Filled bool    // true when the price was carried forward, not traded
}

// ContractSeries describes one contract family's bins and active window.
type ContractSeries struct {
	Family    string
	Bins      []float64 // All bin keys observed, ascending
	FirstDay  Day       // Earliest day with any real trade in the family
	ExpiryDay Day       // Latest day with any real trade in the family
}

// DistributionRow is one (family, day, bin) cell of the distribution table.
// Stages 4-6 each produce a fresh table of these rows.
type DistributionRow struct {
	Family        string
	Day           Day
	ExpiryDay     Day
	BinKey        float64
	AdjustedPrice float64 // Price after monotonicity repair, cents
	Probability   float64 // Bin mass; sums to 100 per (family, day) group
	Volume        int64   // Daily traded volume for the bin; 0 for synthetic bins
	Synthetic     bool    // true for the appended low-end tail bin
}

// FamilyHorizon pairs a contract family with its horizon day for listings
// ordered by settlement date.
type FamilyHorizon struct {
	Family  string
	Horizon Day
}

// MomentSummary holds the weighted descriptive statistics of one
// contract-day distribution.
type MomentSummary struct {
	Family    string
	Day       Day
	ExpiryDay Day
	Mean      float64
	Median    float64
	Mode      float64
	Variance  float64
	Skewness  float64
	Kurtosis  float64
}
