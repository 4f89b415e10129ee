package pipeline

import (
	"testing"

	"github.com/jdkatz21/Prediction-Markets-Public/internal/model"
)

func TestAggregateLastTrade(t *testing.T) {
	day := model.MustDay("2025-07-30")
	trades := []model.NormalizedTrade{
		{Family: "FED-25SEP", BinKey: 4.0, Day: day, CreatedTS: 100, Price: 40, Size: 10},
		{Family: "FED-25SEP", BinKey: 4.0, Day: day, CreatedTS: 300, Price: 55, Size: 5},
		{Family: "FED-25SEP", BinKey: 4.0, Day: day, CreatedTS: 200, Price: 48, Size: 3},
	}

	out := Aggregate(trades, AggregateLastTrade)

	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	if out[0].Price != 55 {
		t.Errorf("Price = %v, want 55 (chronologically last trade)", out[0].Price)
	}
	if out[0].Volume != 18 {
		t.Errorf("Volume = %d, want 18", out[0].Volume)
	}
}

func TestAggregateVWAP(t *testing.T) {
	day := model.MustDay("2025-07-30")
	trades := []model.NormalizedTrade{
		{Family: "CPI-25AUG", BinKey: 0.3, Day: day, CreatedTS: 100, Price: 40, Size: 1},
		{Family: "CPI-25AUG", BinKey: 0.3, Day: day, CreatedTS: 200, Price: 60, Size: 3},
	}

	out := Aggregate(trades, AggregateVWAP)

	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	// (40*1 + 60*3) / 4 = 55
	if out[0].Price != 55 {
		t.Errorf("Price = %v, want 55", out[0].Price)
	}
	if out[0].Volume != 4 {
		t.Errorf("Volume = %d, want 4", out[0].Volume)
	}
}

func TestAggregateOneRowPerKey(t *testing.T) {
	d1 := model.MustDay("2025-07-30")
	d2 := model.MustDay("2025-07-31")
	trades := []model.NormalizedTrade{
		{Family: "F", BinKey: 1, Day: d1, CreatedTS: 1, Price: 10, Size: 1},
		{Family: "F", BinKey: 1, Day: d1, CreatedTS: 2, Price: 11, Size: 1},
		{Family: "F", BinKey: 1, Day: d2, CreatedTS: 3, Price: 12, Size: 1},
		{Family: "F", BinKey: 2, Day: d1, CreatedTS: 4, Price: 13, Size: 1},
		{Family: "G", BinKey: 1, Day: d1, CreatedTS: 5, Price: 14, Size: 1},
	}

	out := Aggregate(trades, AggregateLastTrade)

	if len(out) != 4 {
		t.Fatalf("len(out) = %d, want 4", len(out))
	}

	type key struct {
		family string
		bin    float64
		day    model.Day
	}
	seen := make(map[key]bool)
	for _, o := range out {
		k := key{o.Family, o.BinKey, o.Day}
		if seen[k] {
			t.Errorf("duplicate row for %v", k)
		}
		seen[k] = true
	}
}
