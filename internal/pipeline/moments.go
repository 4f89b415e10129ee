package pipeline

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/jdkatz21/Prediction-Markets-Public/internal/model"
)

// Moments computes weighted descriptive statistics per contract-day from the
// cleaned distribution:
//
//   - mean: probability-weighted average of the bin keys
//   - median: smallest bin whose cumulative weight reaches half the total
//   - mode: bin with the single largest mass, first in ascending order on ties
//   - variance: weighted second central moment
//   - skewness: robust estimator (mean - median) / mean absolute deviation
//     from the median
//   - kurtosis: weighted fourth central moment over variance squared
//
// Contract-days with any undefined statistic (zero total weight, or a
// degenerate distribution with zero spread) are excluded from the output.
func Moments(rows []model.DistributionRow) []model.MomentSummary {
	groups, order := groupByDay(rows)

	out := make([]model.MomentSummary, 0, len(order))
	for _, k := range order {
		day := groups[k]
		sort.Slice(day, func(i, j int) bool { return day[i].BinKey < day[j].BinKey })

		m, ok := momentsOf(day)
		if !ok {
			continue
		}
		out = append(out, m)
	}

	return out
}

func momentsOf(day []model.DistributionRow) (model.MomentSummary, bool) {
	weights := make([]float64, len(day))
	weighted := make([]float64, len(day))
	for i, r := range day {
		weights[i] = r.Probability
		weighted[i] = r.Probability * r.BinKey
	}

	totalW, err := stats.Sum(weights)
	if err != nil || totalW <= 0 {
		return model.MomentSummary{}, false
	}

	sumWX, err := stats.Sum(weighted)
	if err != nil {
		return model.MomentSummary{}, false
	}
	mean := sumWX / totalW

	// Weighted median: smallest bin whose cumulative weight reaches half.
	median := day[len(day)-1].BinKey
	cum := 0.0
	for _, r := range day {
		cum += r.Probability
		if cum >= totalW/2 {
			median = r.BinKey
			break
		}
	}

	// Weighted mode: largest single mass, first ascending bin on ties.
	mode := day[0].BinKey
	best := day[0].Probability
	for _, r := range day[1:] {
		if r.Probability > best {
			best = r.Probability
			mode = r.BinKey
		}
	}

	var m2, m4, mad float64
	for _, r := range day {
		d := r.BinKey - mean
		m2 += r.Probability * d * d
		m4 += r.Probability * d * d * d * d
		mad += r.Probability * math.Abs(r.BinKey-median)
	}
	variance := m2 / totalW
	mad /= totalW

	// Zero spread leaves skewness and kurtosis undefined.
	if variance == 0 || mad == 0 {
		return model.MomentSummary{}, false
	}

	return model.MomentSummary{
		Family:    day[0].Family,
		Day:       day[0].Day,
		ExpiryDay: day[0].ExpiryDay,
		Mean:      mean,
		Median:    median,
		Mode:      mode,
		Variance:  variance,
		Skewness:  (mean - median) / mad,
		Kurtosis:  (m4 / totalW) / (variance * variance),
	}, true
}
