package pipeline

import (
	"sort"

	"github.com/jdkatz21/Prediction-Markets-Public/internal/model"
)

// GridSpan is the global minimum and maximum observed day across the whole
// dataset. It is the one cross-partition reduction the pipeline needs, so the
// runner computes it once before gap filling.
type GridSpan struct {
	Min model.Day
	Max model.Day
}

// SpanOf computes the global day span over a set of observations.
// ok is false when there are no observations.
func SpanOf(obs []model.DailyObservation) (span GridSpan, ok bool) {
	for i, o := range obs {
		if i == 0 {
			span = GridSpan{Min: o.Day, Max: o.Day}
			continue
		}
		if o.Day < span.Min {
			span.Min = o.Day
		}
		if o.Day > span.Max {
			span.Max = o.Day
		}
	}
	return span, len(obs) > 0
}

// FillGaps produces a dense daily grid per (family, bin): every bin with at
// least one real observation gets a row for every day from its first trade
// through the family's expiry, with missing prices carried forward from the
// most recent earlier day for that exact bin and missing volume set to 0.
//
// Days before a bin's first real observation are not backfilled, days after
// the family expiry are discarded, and known-bad (family, bin) combinations
// from Settings are excluded outright. A family with no real observation at
// all has an undefined expiry and never appears in the output.
func FillGaps(obs []model.DailyObservation, span GridSpan, s Settings) ([]model.DailyObservation, []model.ContractSeries) {
	type pair struct {
		family string
		bin    float64
	}

	byPair := make(map[pair][]model.DailyObservation)
	expiry := make(map[string]model.Day)
	first := make(map[string]model.Day)

	for _, o := range obs {
		if s.excluded(o.Family, o.BinKey) {
			continue
		}
		p := pair{o.Family, o.BinKey}
		byPair[p] = append(byPair[p], o)

		if exp, ok := expiry[o.Family]; !ok || o.Day > exp {
			expiry[o.Family] = o.Day
		}
		if f, ok := first[o.Family]; !ok || o.Day < f {
			first[o.Family] = o.Day
		}
	}

	pairs := make([]pair, 0, len(byPair))
	for p := range byPair {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].family != pairs[j].family {
			return pairs[i].family < pairs[j].family
		}
		return pairs[i].bin < pairs[j].bin
	})

	var out []model.DailyObservation
	bins := make(map[string][]float64)

	for _, p := range pairs {
		rows := byPair[p]
		sort.Slice(rows, func(i, j int) bool { return rows[i].Day < rows[j].Day })

		exp := expiry[p.family]
		start := rows[0].Day
		if start < span.Min {
			start = span.Min
		}
		if s.WindowDays > 0 {
			if lb := exp.AddDays(-s.WindowDays); start < lb {
				start = lb
			}
		}

		bins[p.family] = append(bins[p.family], p.bin)

		idx := 0
		var lastPrice float64
		seen := false

		for d := rows[0].Day; d <= exp; d++ {
			var row model.DailyObservation
			if idx < len(rows) && rows[idx].Day == d {
				row = rows[idx]
				lastPrice = row.Price
				seen = true
				idx++
			} else {
				if !seen {
					continue
				}
				row = model.DailyObservation{
					Family: p.family,
					BinKey: p.bin,
					Day:    d,
					Price:  lastPrice,
					Volume: 0,
					Filled: true,
				}
			}
			if row.Day >= start {
				out = append(out, row)
			}
		}
	}

	families := make([]string, 0, len(bins))
	for f := range bins {
		families = append(families, f)
	}
	sort.Strings(families)

	series := make([]model.ContractSeries, 0, len(families))
	for _, f := range families {
		series = append(series, model.ContractSeries{
			Family:    f,
			Bins:      bins[f],
			FirstDay:  first[f],
			ExpiryDay: expiry[f],
		})
	}

	return out, series
}
