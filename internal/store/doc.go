// Package store persists raw trades and pipeline outputs to PostgreSQL.
//
// The pipeline is batch-oriented, so the writers here are plain batch
// inserts rather than streaming consumers: trades are append-only with
// duplicate trade IDs dropped, while distributions and moments are
// upserted so a re-run overwrites the previous day's output.
package store
