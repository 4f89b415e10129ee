package store

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS trades (
		trade_id   UUID PRIMARY KEY,
		ticker     TEXT NOT NULL,
		created_ts BIGINT NOT NULL,
		price      INTEGER NOT NULL,
		size       INTEGER NOT NULL,
		taker_side BOOLEAN NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS trades_ticker_ts_idx ON trades (ticker, created_ts)`,

	`CREATE TABLE IF NOT EXISTS distributions (
		market_type    TEXT NOT NULL,
		family         TEXT NOT NULL,
		day            INTEGER NOT NULL,
		expiry_day     INTEGER NOT NULL,
		bin            DOUBLE PRECISION NOT NULL,
		adjusted_price DOUBLE PRECISION NOT NULL,
		probability    DOUBLE PRECISION NOT NULL,
		volume         BIGINT NOT NULL,
		synthetic      BOOLEAN NOT NULL,
		PRIMARY KEY (family, day, bin)
	)`,
	`CREATE INDEX IF NOT EXISTS distributions_type_idx ON distributions (market_type, family)`,

	`CREATE TABLE IF NOT EXISTS moments (
		market_type TEXT NOT NULL,
		family      TEXT NOT NULL,
		day         INTEGER NOT NULL,
		expiry_day  INTEGER NOT NULL,
		mean        DOUBLE PRECISION NOT NULL,
		median      DOUBLE PRECISION NOT NULL,
		mode        DOUBLE PRECISION NOT NULL,
		variance    DOUBLE PRECISION NOT NULL,
		skewness    DOUBLE PRECISION NOT NULL,
		kurtosis    DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (family, day)
	)`,
}

// EnsureSchema creates the tables and indexes if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	s.logger.Debug("schema ensured")
	return nil
}
