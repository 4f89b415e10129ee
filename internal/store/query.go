package store

import (
	"context"
	"fmt"

	"github.com/jdkatz21/Prediction-Markets-Public/internal/model"
)

// TradesForTickers loads the raw trades for a set of tickers, ordered by time.
func (s *Store) TradesForTickers(ctx context.Context, tickers []string) ([]model.TradeRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT trade_id, ticker, created_ts, price, size, taker_side
		FROM trades
		WHERE ticker = ANY($1)
		ORDER BY ticker, created_ts
	`, tickers)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var out []model.TradeRecord
	for rows.Next() {
		var t model.TradeRecord
		if err := rows.Scan(&t.TradeID, &t.Ticker, &t.CreatedTS, &t.Price, &t.Size, &t.TakerSide); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Families lists the contract families present for a market type with their
// stored horizon days, newest horizon first.
func (s *Store) Families(ctx context.Context, marketType string) ([]model.FamilyHorizon, error) {
	rows, err := s.db.Query(ctx, `
		SELECT family, MAX(expiry_day) AS horizon
		FROM distributions
		WHERE market_type = $1
		GROUP BY family
		ORDER BY horizon DESC, family
	`, marketType)
	if err != nil {
		return nil, fmt.Errorf("query families: %w", err)
	}
	defer rows.Close()

	var out []model.FamilyHorizon
	for rows.Next() {
		var f string
		var horizon int
		if err := rows.Scan(&f, &horizon); err != nil {
			return nil, fmt.Errorf("scan family: %w", err)
		}
		out = append(out, model.FamilyHorizon{Family: f, Horizon: model.Day(horizon)})
	}
	return out, rows.Err()
}

// Distribution loads the distribution rows for a family on the given days.
// An empty day list loads every day.
func (s *Store) Distribution(ctx context.Context, family string, days []model.Day) ([]model.DistributionRow, error) {
	query := `
		SELECT family, day, expiry_day, bin, adjusted_price, probability, volume, synthetic
		FROM distributions
		WHERE family = $1
	`
	args := []any{family}
	if len(days) > 0 {
		dayInts := make([]int, len(days))
		for i, d := range days {
			dayInts[i] = int(d)
		}
		query += ` AND day = ANY($2)`
		args = append(args, dayInts)
	}
	query += ` ORDER BY day, bin`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query distribution: %w", err)
	}
	defer rows.Close()

	var out []model.DistributionRow
	for rows.Next() {
		var r model.DistributionRow
		var day, expiry int
		if err := rows.Scan(&r.Family, &day, &expiry, &r.BinKey, &r.AdjustedPrice, &r.Probability, &r.Volume, &r.Synthetic); err != nil {
			return nil, fmt.Errorf("scan distribution row: %w", err)
		}
		r.Day = model.Day(day)
		r.ExpiryDay = model.Day(expiry)
		out = append(out, r)
	}
	return out, rows.Err()
}

// PredictionDays lists the days a family has distributions for, ascending.
func (s *Store) PredictionDays(ctx context.Context, family string) ([]model.Day, error) {
	rows, err := s.db.Query(ctx, `
		SELECT DISTINCT day FROM distributions
		WHERE family = $1
		ORDER BY day
	`, family)
	if err != nil {
		return nil, fmt.Errorf("query prediction days: %w", err)
	}
	defer rows.Close()

	var out []model.Day
	for rows.Next() {
		var d int
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan day: %w", err)
		}
		out = append(out, model.Day(d))
	}
	return out, rows.Err()
}

// ExpiryDay returns the expiry day recorded for a family.
func (s *Store) ExpiryDay(ctx context.Context, family string) (model.Day, error) {
	var d int
	err := s.db.QueryRow(ctx, `
		SELECT expiry_day FROM distributions
		WHERE family = $1
		LIMIT 1
	`, family).Scan(&d)
	if err != nil {
		return 0, fmt.Errorf("query expiry day: %w", err)
	}
	return model.Day(d), nil
}

// Moments loads the moment summaries for a family, ordered by day.
func (s *Store) Moments(ctx context.Context, family string) ([]model.MomentSummary, error) {
	rows, err := s.db.Query(ctx, `
		SELECT family, day, expiry_day, mean, median, mode, variance, skewness, kurtosis
		FROM moments
		WHERE family = $1
		ORDER BY day
	`, family)
	if err != nil {
		return nil, fmt.Errorf("query moments: %w", err)
	}
	defer rows.Close()

	var out []model.MomentSummary
	for rows.Next() {
		var m model.MomentSummary
		var day, expiry int
		if err := rows.Scan(&m.Family, &day, &expiry, &m.Mean, &m.Median, &m.Mode, &m.Variance, &m.Skewness, &m.Kurtosis); err != nil {
			return nil, fmt.Errorf("scan moment row: %w", err)
		}
		m.Day = model.Day(day)
		m.ExpiryDay = model.Day(expiry)
		out = append(out, m)
	}
	return out, rows.Err()
}
