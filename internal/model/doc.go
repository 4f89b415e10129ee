// Package model defines shared data types used across the distribution
// pipeline.
//
// Conventions:
//   - Trade prices: integer cents (0-100 = $0.00-$1.00) at ingestion,
//     float64 cents once daily aggregation can produce fractional values
//   - Timestamps: int64 microseconds since Unix epoch
//   - Calendar days: Day (days since the Unix epoch, reference time zone)
//   - IDs: string for tickers, uuid.UUID for trade IDs
package model
