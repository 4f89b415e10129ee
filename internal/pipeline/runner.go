package pipeline

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jdkatz21/Prediction-Markets-Public/internal/model"
)

// Runner executes the full stage sequence for one market type.
type Runner struct {
	settings    Settings
	concurrency int
	logger      *slog.Logger
}

// DefaultConcurrency bounds how many contract families are processed at once.
const DefaultConcurrency = 8

// NewRunner validates the settings and returns a Runner.
func NewRunner(s Settings, concurrency int, logger *slog.Logger) (*Runner, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{settings: s, concurrency: concurrency, logger: logger}, nil
}

// Run executes normalize -> aggregate -> fill gaps -> monotone repair ->
// extract -> smooth -> moments over a complete historical trade batch.
//
// Contract families are independent partitions, so after the one global
// min/max-day reduction they run concurrently. A failing family is logged
// and counted but never aborts the other families.
func (r *Runner) Run(ctx context.Context, trades []model.TradeRecord) (*Result, error) {
	result := &Result{}
	result.Stats.TradesIn = len(trades)

	// Stage 1: normalize.
	normalized, malformed := Normalize(trades, r.settings.location(), r.logger)
	result.Stats.MalformedDropped = malformed

	byFamily := make(map[string][]model.NormalizedTrade)
	for _, tr := range normalized {
		byFamily[tr.Family] = append(byFamily[tr.Family], tr)
	}
	families := make([]string, 0, len(byFamily))
	for f := range byFamily {
		families = append(families, f)
	}
	sort.Strings(families)
	result.Stats.FamiliesIn = len(families)

	// The one global reduction: min/max observed day across the dataset.
	span, ok := spanOfTrades(normalized)
	if !ok {
		r.logger.Warn("no parseable trades in batch", "market_type", r.settings.Name)
		return result, nil
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for _, family := range families {
		family := family
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			part, err := r.runFamily(byFamily[family], span)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// Partition errors are isolated; one bad family must not
				// abort the batch.
				result.Stats.FamiliesFailed++
				r.logger.Error("family partition failed",
					"market_type", r.settings.Name,
					"family", family,
					"err", err,
				)
				return nil
			}
			result.Series = append(result.Series, part.Series...)
			result.Distributions = append(result.Distributions, part.Distributions...)
			result.Moments = append(result.Moments, part.Moments...)
			result.Stats.ZeroMassDropped += part.Stats.ZeroMassDropped
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortResult(result)

	r.logger.Info("pipeline run complete",
		"market_type", r.settings.Name,
		"trades", result.Stats.TradesIn,
		"malformed_dropped", result.Stats.MalformedDropped,
		"families", result.Stats.FamiliesIn,
		"families_failed", result.Stats.FamiliesFailed,
		"zero_mass_dropped", result.Stats.ZeroMassDropped,
		"distribution_rows", len(result.Distributions),
		"moment_rows", len(result.Moments),
	)

	return result, nil
}

// runFamily executes stages 2-7 over one family's normalized trades.
func (r *Runner) runFamily(trades []model.NormalizedTrade, span GridSpan) (*Result, error) {
	part := &Result{}

	daily := Aggregate(trades, r.settings.Aggregation)

	dense, series := FillGaps(daily, span, r.settings)
	if len(series) == 0 {
		// Every bin of the family was excluded; nothing to distribute.
		return part, nil
	}

	repaired := MonotoneRepair(dense, series, r.settings.Convention)

	extracted, zeroDropped := Extract(repaired, r.settings)
	part.Stats.ZeroMassDropped = zeroDropped

	smoothed, err := Smooth(extracted, r.settings)
	if err != nil {
		return nil, err
	}

	part.Series = series
	part.Distributions = smoothed
	part.Moments = Moments(smoothed)
	return part, nil
}

// spanOfTrades computes the global day span over normalized trades.
func spanOfTrades(trades []model.NormalizedTrade) (span GridSpan, ok bool) {
	for i, tr := range trades {
		if i == 0 {
			span = GridSpan{Min: tr.Day, Max: tr.Day}
			continue
		}
		if tr.Day < span.Min {
			span.Min = tr.Day
		}
		if tr.Day > span.Max {
			span.Max = tr.Day
		}
	}
	return span, len(trades) > 0
}

// sortResult orders the merged partition outputs deterministically.
func sortResult(res *Result) {
	sort.Slice(res.Series, func(i, j int) bool {
		return res.Series[i].Family < res.Series[j].Family
	})
	sort.Slice(res.Distributions, func(i, j int) bool {
		a, b := res.Distributions[i], res.Distributions[j]
		if a.Family != b.Family {
			return a.Family < b.Family
		}
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return a.BinKey < b.BinKey
	})
	sort.Slice(res.Moments, func(i, j int) bool {
		a, b := res.Moments[i], res.Moments[j]
		if a.Family != b.Family {
			return a.Family < b.Family
		}
		return a.Day < b.Day
	})
}
