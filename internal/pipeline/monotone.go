package pipeline

import (
	"sort"

	"github.com/jdkatz21/Prediction-Markets-Public/internal/model"
)

// MonotoneRepair enforces the no-arbitrage ordering constraint within each
// contract-day. A cumulative market prices P(outcome >= bin), which must be
// non-increasing in the bin key; thin trading can violate that. For each
// (family, day) the bins are traversed from the highest strike down and each
// adjusted price is the running maximum of itself and all higher strikes, so
// an inversion is always resolved by assuming the less-probable-looking
// contract was mispriced.
//
// Under the direct convention no ordering constraint exists and the adjusted
// price is the daily price unchanged.
func MonotoneRepair(obs []model.DailyObservation, series []model.ContractSeries, conv Convention) []model.DistributionRow {
	expiry := make(map[string]model.Day, len(series))
	for _, cs := range series {
		expiry[cs.Family] = cs.ExpiryDay
	}

	type key struct {
		family string
		day    model.Day
	}

	groups := make(map[key][]model.DistributionRow)
	order := make([]key, 0)

	for _, o := range obs {
		k := key{o.Family, o.Day}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], model.DistributionRow{
			Family:        o.Family,
			Day:           o.Day,
			ExpiryDay:     expiry[o.Family],
			BinKey:        o.BinKey,
			AdjustedPrice: o.Price,
			Volume:        o.Volume,
		})
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].family != order[j].family {
			return order[i].family < order[j].family
		}
		return order[i].day < order[j].day
	})

	out := make([]model.DistributionRow, 0, len(obs))
	for _, k := range order {
		rows := groups[k]
		sort.Slice(rows, func(i, j int) bool { return rows[i].BinKey < rows[j].BinKey })

		if conv == ConventionCumulative {
			// Cumulative maximum from the top strike down.
			runningMax := 0.0
			for i := len(rows) - 1; i >= 0; i-- {
				if rows[i].AdjustedPrice > runningMax {
					runningMax = rows[i].AdjustedPrice
				}
				rows[i].AdjustedPrice = runningMax
			}
		}

		out = append(out, rows...)
	}

	return out
}
