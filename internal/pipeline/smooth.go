package pipeline

import (
	"fmt"
	"sort"

	"github.com/jdkatz21/Prediction-Markets-Public/internal/model"
)

// SmoothingDivergedError reports a contract-day whose gap redistribution
// failed to reach a fixed point within the pass cap.
type SmoothingDivergedError struct {
	Family string
	Day    model.Day
	Passes int
}

func (e *SmoothingDivergedError) Error() string {
	return fmt.Sprintf("smoothing diverged for %s on %s after %d passes", e.Family, e.Day, e.Passes)
}

// Smooth eliminates zero-probability bins created by stale or thin pricing
// rather than genuine zero likelihood. Cumulative-convention families only.
//
// Per contract-day, bins are traversed in ascending strike order (first and
// last bin excluded). A zero-mass bin on the low-probability side of the
// market (adjusted price above the 49-cent midpoint) pulls the mass up from
// its lower neighbor; a zero-mass bin on the high-probability side (adjusted
// price below the midpoint) pulls the mass down from its higher neighbor.
// The left-side rule is evaluated first, for reproducibility. Traversals
// repeat until one completes with no transfer; mass never crosses the mode
// because a transfer only ever relocates a neighbor's mass into an exact gap.
//
// After convergence each contract-day is rescaled to sum 100 and, when
// HorizonTrimDays is set, contract-days farther than that many days from
// expiry are dropped.
func Smooth(rows []model.DistributionRow, s Settings) ([]model.DistributionRow, error) {
	if s.Convention != ConventionCumulative {
		return rows, nil
	}

	groups, order := groupByDay(rows)

	var out []model.DistributionRow
	for _, k := range order {
		day := groups[k]
		sort.Slice(day, func(i, j int) bool { return day[i].BinKey < day[j].BinKey })

		if err := smoothDay(day, s.maxSmoothPasses()); err != nil {
			return nil, err
		}
		rescale(day)

		if s.HorizonTrimDays > 0 && day[0].Day.DaysUntil(day[0].ExpiryDay) > s.HorizonTrimDays {
			continue
		}
		out = append(out, day...)
	}

	return out, nil
}

// smoothDay runs the fixed-point transfer loop over one sorted contract-day.
func smoothDay(day []model.DistributionRow, maxPasses int) error {
	for pass := 1; pass <= maxPasses; pass++ {
		moved := false

		for i := 1; i < len(day)-1; i++ {
			if day[i].Probability != 0 {
				continue
			}

			// Left side of the market: pull mass up from below.
			if day[i].AdjustedPrice > midQuote && day[i-1].Probability != 0 {
				day[i].Probability = day[i-1].Probability
				day[i-1].Probability = 0
				moved = true
				continue
			}

			// Right side: pull mass down from above.
			if day[i].AdjustedPrice < midQuote && day[i+1].Probability != 0 {
				day[i].Probability = day[i+1].Probability
				day[i+1].Probability = 0
				moved = true
			}
		}

		if !moved {
			return nil
		}
	}

	return &SmoothingDivergedError{
		Family: day[0].Family,
		Day:    day[0].Day,
		Passes: maxPasses,
	}
}
