package pipeline

import (
	"sort"

	"github.com/jdkatz21/Prediction-Markets-Public/internal/model"
)

// Quote bounds. The exchange quotes binary contracts at 1-99 cents, so the
// cumulative curve is capped there rather than at 0/100.
const (
	maxQuote = 99.0
	minQuote = 1.0
	midQuote = 49.0
)

// Extract converts adjusted prices into an unnormalized probability mass per
// bin and rescales each contract-day to sum exactly 100.
//
// Cumulative convention: a synthetic low-end bin is appended one strike
// interval below the lowest strike to bound the left tail, then each bin's
// mass is the discrete derivative of the cumulative price curve: the drop
// from its own adjusted price to the next-higher strike's, with the top bin
// keeping the mass above it (adjusted price minus the 1-cent floor) and the
// synthetic bin keeping the mass below the lowest strike (the 99-cent cap
// minus the lowest strike's adjusted price).
//
// Direct convention: the daily price already is the bucket mass.
//
// A contract-day whose total mass is zero has an undefined distribution and
// is dropped; the count of dropped days is returned.
func Extract(rows []model.DistributionRow, s Settings) ([]model.DistributionRow, int) {
	groups, order := groupByDay(rows)

	var out []model.DistributionRow
	dropped := 0

	for _, k := range order {
		day := groups[k]
		sort.Slice(day, func(i, j int) bool { return day[i].BinKey < day[j].BinKey })

		if s.Convention == ConventionCumulative {
			synthetic := model.DistributionRow{
				Family:        day[0].Family,
				Day:           day[0].Day,
				ExpiryDay:     day[0].ExpiryDay,
				BinKey:        day[0].BinKey - s.StrikeInterval,
				AdjustedPrice: maxQuote,
				Synthetic:     true,
			}
			day = append([]model.DistributionRow{synthetic}, day...)

			for i := range day {
				var mass float64
				if i < len(day)-1 {
					mass = day[i].AdjustedPrice - day[i+1].AdjustedPrice
				} else {
					mass = day[i].AdjustedPrice - minQuote
				}
				// A price pinned at the quote bound can leave a negative
				// boundary mass; floor it.
				if mass < 0 {
					mass = 0
				}
				day[i].Probability = mass
			}
		} else {
			for i := range day {
				day[i].Probability = day[i].AdjustedPrice
			}
		}

		if !rescale(day) {
			dropped++
			continue
		}
		out = append(out, day...)
	}

	return out, dropped
}

// rescale normalizes a contract-day in place so probabilities sum to 100.
// Returns false when the total mass is zero.
func rescale(day []model.DistributionRow) bool {
	sum := 0.0
	for _, r := range day {
		sum += r.Probability
	}
	if sum == 0 {
		return false
	}
	for i := range day {
		day[i].Probability = day[i].Probability / sum * 100
	}
	return true
}

type dayKey struct {
	family string
	day    model.Day
}

// groupByDay partitions rows by (family, day), preserving a deterministic
// group order.
func groupByDay(rows []model.DistributionRow) (map[dayKey][]model.DistributionRow, []dayKey) {
	groups := make(map[dayKey][]model.DistributionRow)
	order := make([]dayKey, 0)

	for _, r := range rows {
		k := dayKey{r.Family, r.Day}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].family != order[j].family {
			return order[i].family < order[j].family
		}
		return order[i].day < order[j].day
	})

	return groups, order
}
