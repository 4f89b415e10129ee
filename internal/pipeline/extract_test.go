package pipeline

import (
	"math"
	"testing"

	"github.com/jdkatz21/Prediction-Markets-Public/internal/model"
)

func distDay(family string, day model.Day, adjusted map[float64]float64) []model.DistributionRow {
	out := make([]model.DistributionRow, 0, len(adjusted))
	for bin, price := range adjusted {
		out = append(out, model.DistributionRow{
			Family: family, Day: day, ExpiryDay: day,
			BinKey: bin, AdjustedPrice: price,
		})
	}
	return out
}

func sumProb(rows []model.DistributionRow) float64 {
	sum := 0.0
	for _, r := range rows {
		sum += r.Probability
	}
	return sum
}

func TestExtractCumulative(t *testing.T) {
	day := model.MustDay("2025-07-30")
	s := cumulativeSettings()
	s.StrikeInterval = 1.0

	// Adjusted prices: bin 1.0 = 60, bin 2.0 = 40 (already non-increasing).
	rows := distDay("X-1", day, map[float64]float64{1.0: 60, 2.0: 40})

	out, dropped := Extract(rows, s)

	if dropped != 0 {
		t.Errorf("dropped = %d, want 0", dropped)
	}
	if len(out) != 3 {
		t.Fatalf("len(out) = %d, want 3 (synthetic + 2 strikes)", len(out))
	}

	// Unnormalized masses: synthetic 99-60=39, bin 1.0 60-40=20,
	// bin 2.0 40-1=39; total 98, rescaled to 100.
	if !out[0].Synthetic || out[0].BinKey != 0.0 {
		t.Errorf("out[0] = %+v, want synthetic bin at 0.0", out[0])
	}
	wantProbs := []float64{39.0 / 98 * 100, 20.0 / 98 * 100, 39.0 / 98 * 100}
	for i, want := range wantProbs {
		if math.Abs(out[i].Probability-want) > 1e-9 {
			t.Errorf("bin %v probability = %v, want %v", out[i].BinKey, out[i].Probability, want)
		}
	}
	if math.Abs(sumProb(out)-100) > 1e-6 {
		t.Errorf("probabilities sum to %v, want 100", sumProb(out))
	}
}

func TestExtractDirect(t *testing.T) {
	day := model.MustDay("2025-07-30")
	s := Settings{Name: "test", Aggregation: AggregateVWAP, Convention: ConventionDirect}

	rows := distDay("B", day, map[float64]float64{0.1: 10, 0.2: 30, 0.3: 10})

	out, dropped := Extract(rows, s)

	if dropped != 0 {
		t.Errorf("dropped = %d, want 0", dropped)
	}
	if len(out) != 3 {
		t.Fatalf("len(out) = %d, want 3 (no synthetic bin)", len(out))
	}
	// 10/50, 30/50, 10/50 of 100.
	wantProbs := []float64{20, 60, 20}
	for i, want := range wantProbs {
		if math.Abs(out[i].Probability-want) > 1e-9 {
			t.Errorf("bin %v probability = %v, want %v", out[i].BinKey, out[i].Probability, want)
		}
	}
}

func TestExtractZeroMassDropped(t *testing.T) {
	day := model.MustDay("2025-07-30")
	s := Settings{Name: "test", Aggregation: AggregateVWAP, Convention: ConventionDirect}

	rows := distDay("B", day, map[float64]float64{0.1: 0, 0.2: 0})

	out, dropped := Extract(rows, s)

	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	if len(out) != 0 {
		t.Errorf("len(out) = %d, want 0", len(out))
	}
}

func TestExtractNonNegative(t *testing.T) {
	day := model.MustDay("2025-07-30")
	s := cumulativeSettings()

	// Top strike pinned at the floor and bottom strike pinned at the cap
	// would otherwise produce negative boundary masses.
	rows := distDay("F", day, map[float64]float64{1.0: 100, 2.0: 50, 3.0: 0})

	out, _ := Extract(rows, s)

	for _, r := range out {
		if r.Probability < 0 {
			t.Errorf("bin %v probability = %v, want >= 0", r.BinKey, r.Probability)
		}
	}
	if math.Abs(sumProb(out)-100) > 1e-6 {
		t.Errorf("probabilities sum to %v, want 100", sumProb(out))
	}
}
