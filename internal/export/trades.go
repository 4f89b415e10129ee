package export

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"github.com/jdkatz21/Prediction-Markets-Public/internal/model"
)

// tradeCSV mirrors one row of a trade-level data file. The column layout
// matches what the exchange's trades endpoint returns.
type tradeCSV struct {
	TradeID     string `csv:"trade_id"`
	Ticker      string `csv:"ticker"`
	Count       int    `csv:"count"`
	CreatedTime string `csv:"created_time"`
	YesPrice    int    `csv:"yes_price"`
	NoPrice     int    `csv:"no_price"`
	TakerSide   string `csv:"taker_side"`
}

func parseTradeTime(iso string) (int64, error) {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		t, err = time.Parse("2006-01-02T15:04:05", iso)
		if err != nil {
			return 0, err
		}
	}
	return t.UnixMicro(), nil
}

// ReadTrades loads a trade-level CSV file. Rows with an unparseable trade ID
// or timestamp are skipped; the count of skipped rows is returned alongside
// the valid records.
func ReadTrades(path string) ([]model.TradeRecord, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open trades file: %w", err)
	}
	defer f.Close()

	var rows []*tradeCSV
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, 0, fmt.Errorf("parse trades file %s: %w", path, err)
	}

	records := make([]model.TradeRecord, 0, len(rows))
	skipped := 0
	for _, r := range rows {
		id, err := uuid.Parse(r.TradeID)
		if err != nil {
			skipped++
			continue
		}
		ts, err := parseTradeTime(r.CreatedTime)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, model.TradeRecord{
			TradeID:   id,
			Ticker:    r.Ticker,
			CreatedTS: ts,
			Price:     r.YesPrice,
			Size:      r.Count,
			TakerSide: r.TakerSide == "yes",
		})
	}

	return records, skipped, nil
}

// WriteTrades writes trade records to a CSV file, creating parent
// directories as needed.
func WriteTrades(path string, trades []model.TradeRecord) error {
	rows := make([]*tradeCSV, len(trades))
	for i, t := range trades {
		yes := t.Price
		rows[i] = &tradeCSV{
			TradeID:     t.TradeID.String(),
			Ticker:      t.Ticker,
			Count:       t.Size,
			CreatedTime: time.UnixMicro(t.CreatedTS).UTC().Format(time.RFC3339Nano),
			YesPrice:    yes,
			NoPrice:     100 - yes,
			TakerSide:   sideString(t.TakerSide),
		}
	}
	return writeCSV(path, &rows)
}

func sideString(yes bool) string {
	if yes {
		return "yes"
	}
	return "no"
}

// UpdateTrades merges fresh trades into the archive at path, deduplicating
// on trade ID, and rewrites the file. Trades already archived are kept even
// when their tickers are no longer scraped. Returns how many fresh trades
// were new and the archive size after the merge.
func UpdateTrades(path string, fresh []model.TradeRecord) (added, total int, err error) {
	existing, _, err := ReadTrades(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return 0, 0, err
		}
		existing = nil
	}

	seen := make(map[uuid.UUID]bool, len(existing))
	for _, t := range existing {
		seen[t.TradeID] = true
	}

	merged := existing
	for _, t := range fresh {
		if seen[t.TradeID] {
			continue
		}
		seen[t.TradeID] = true
		merged = append(merged, t)
		added++
	}

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].CreatedTS != merged[j].CreatedTS {
			return merged[i].CreatedTS < merged[j].CreatedTS
		}
		return merged[i].Ticker < merged[j].Ticker
	})

	if err := WriteTrades(path, merged); err != nil {
		return 0, 0, err
	}
	return added, len(merged), nil
}
