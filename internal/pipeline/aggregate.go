package pipeline

import (
	"sort"

	"github.com/jdkatz21/Prediction-Markets-Public/internal/model"
)

// Aggregate collapses intraday trades into one observation per
// (family, bin, day). The daily price follows the given policy; daily volume
// is always the sum of trade sizes. The output has at most one row per key
// and is sorted by (family, bin, day).
func Aggregate(trades []model.NormalizedTrade, policy AggregationPolicy) []model.DailyObservation {
	type key struct {
		family string
		bin    float64
		day    model.Day
	}

	type acc struct {
		lastTS    int64
		lastPrice int
		sumPxSize float64
		volume    int64
	}

	groups := make(map[key]*acc)
	order := make([]key, 0)

	for _, tr := range trades {
		k := key{tr.Family, tr.BinKey, tr.Day}
		a, ok := groups[k]
		if !ok {
			a = &acc{}
			groups[k] = a
			order = append(order, k)
		}
		if tr.CreatedTS >= a.lastTS {
			a.lastTS = tr.CreatedTS
			a.lastPrice = tr.Price
		}
		a.sumPxSize += float64(tr.Price) * float64(tr.Size)
		a.volume += int64(tr.Size)
	}

	out := make([]model.DailyObservation, 0, len(order))
	for _, k := range order {
		a := groups[k]

		var price float64
		switch policy {
		case AggregateVWAP:
			if a.volume > 0 {
				price = a.sumPxSize / float64(a.volume)
			} else {
				price = float64(a.lastPrice)
			}
		default: // AggregateLastTrade
			price = float64(a.lastPrice)
		}

		out = append(out, model.DailyObservation{
			Family: k.family,
			BinKey: k.bin,
			Day:    k.day,
			Price:  price,
			Volume: a.volume,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Family != b.Family {
			return a.Family < b.Family
		}
		if a.BinKey != b.BinKey {
			return a.BinKey < b.BinKey
		}
		return a.Day < b.Day
	})

	return out
}
