// Package ticker parses exchange market tickers into contract families and
// outcome bins.
//
// Two suffix conventions exist across the covered market types:
//   - Level markets carry a "-T<number>" suffix: FED-25SEP-T4.00 prices
//     "rate >= 4.00" for the FED-25SEP family.
//   - Bucket markets carry a bare numeric suffix: CPI-25AUG-0.3 prices the
//     0.3 bucket for the CPI-25AUG family.
//
// Anything else is a MalformedTickerError; callers drop and count such
// records rather than failing the batch.
package ticker
