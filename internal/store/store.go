package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jdkatz21/Prediction-Markets-Public/internal/model"
)

// Store wraps a connection pool with typed writers and queries.
type Store struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// New creates a Store around an existing pool.
func New(db *pgxpool.Pool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// Close releases the underlying pool.
func (s *Store) Close() {
	s.db.Close()
}

// Ping verifies the connection is healthy.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// InsertTrades appends trade records, dropping duplicates by trade ID.
// Returns the number of newly inserted rows and the number of conflicts.
func (s *Store) InsertTrades(ctx context.Context, trades []model.TradeRecord) (inserted, conflicts int, err error) {
	if len(trades) == 0 {
		return 0, 0, nil
	}

	start := time.Now()

	batch := &pgx.Batch{}
	for _, t := range trades {
		batch.Queue(`
			INSERT INTO trades (trade_id, ticker, created_ts, price, size, taker_side)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (trade_id) DO NOTHING
		`, t.TradeID, t.Ticker, t.CreatedTS, t.Price, t.Size, t.TakerSide)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for range trades {
		ct, err := results.Exec()
		if err != nil {
			return 0, 0, fmt.Errorf("insert trades: %w", err)
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	inserted = len(trades) - conflicts
	s.logger.Debug("inserted trades",
		"count", len(trades),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
	return inserted, conflicts, nil
}

// UpsertDistributions writes distribution rows for one market type,
// overwriting any previous run's output for the same (family, day, bin).
func (s *Store) UpsertDistributions(ctx context.Context, marketType string, rows []model.DistributionRow) error {
	if len(rows) == 0 {
		return nil
	}

	start := time.Now()

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO distributions
				(market_type, family, day, expiry_day, bin, adjusted_price, probability, volume, synthetic)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (family, day, bin) DO UPDATE SET
				market_type = EXCLUDED.market_type,
				expiry_day = EXCLUDED.expiry_day,
				adjusted_price = EXCLUDED.adjusted_price,
				probability = EXCLUDED.probability,
				volume = EXCLUDED.volume,
				synthetic = EXCLUDED.synthetic
		`, marketType, r.Family, int(r.Day), int(r.ExpiryDay),
			r.BinKey, r.AdjustedPrice, r.Probability, r.Volume, r.Synthetic)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert distributions: %w", err)
		}
	}

	s.logger.Debug("upserted distributions",
		"market_type", marketType,
		"count", len(rows),
		"duration", time.Since(start),
	)
	return nil
}

// UpsertMoments writes moment summaries for one market type.
func (s *Store) UpsertMoments(ctx context.Context, marketType string, rows []model.MomentSummary) error {
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, m := range rows {
		batch.Queue(`
			INSERT INTO moments
				(market_type, family, day, expiry_day, mean, median, mode, variance, skewness, kurtosis)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (family, day) DO UPDATE SET
				market_type = EXCLUDED.market_type,
				expiry_day = EXCLUDED.expiry_day,
				mean = EXCLUDED.mean,
				median = EXCLUDED.median,
				mode = EXCLUDED.mode,
				variance = EXCLUDED.variance,
				skewness = EXCLUDED.skewness,
				kurtosis = EXCLUDED.kurtosis
		`, marketType, m.Family, int(m.Day), int(m.ExpiryDay),
			m.Mean, m.Median, m.Mode, m.Variance, m.Skewness, m.Kurtosis)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert moments: %w", err)
		}
	}

	return nil
}
