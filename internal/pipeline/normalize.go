package pipeline

import (
	"log/slog"
	"sort"
	"time"

	"github.com/jdkatz21/Prediction-Markets-Public/internal/model"
	"github.com/jdkatz21/Prediction-Markets-Public/internal/ticker"
)

// Normalize parses raw trade records into normalized trades with contract
// family, bin key, and calendar day assigned. Records whose ticker matches
// neither suffix convention are dropped and counted, never fatal.
//
// Output is sorted by (family, bin, day, time) so downstream grouped scans
// see deterministic order.
func Normalize(trades []model.TradeRecord, loc *time.Location, logger *slog.Logger) ([]model.NormalizedTrade, int) {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}

	out := make([]model.NormalizedTrade, 0, len(trades))
	dropped := 0

	for _, tr := range trades {
		family, bin, err := ticker.Parse(tr.Ticker)
		if err != nil {
			dropped++
			logger.Warn("dropping trade with malformed ticker",
				"ticker", tr.Ticker,
				"trade_id", tr.TradeID,
				"err", err,
			)
			continue
		}

		out = append(out, model.NormalizedTrade{
			Family:    family,
			BinKey:    bin,
			Day:       model.DayOf(time.UnixMicro(tr.CreatedTS), loc),
			CreatedTS: tr.CreatedTS,
			Price:     tr.Price,
			Size:      tr.Size,
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
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return a.CreatedTS < b.CreatedTS
	})

	return out, dropped
}
