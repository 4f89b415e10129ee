package pipeline

import (
	"math"
	"testing"

	"github.com/jdkatz21/Prediction-Markets-Public/internal/model"
)

func momentRows(bins, probs []float64) []model.DistributionRow {
	day := model.MustDay("2025-07-30")
	rows := make([]model.DistributionRow, len(bins))
	for i := range bins {
		rows[i] = model.DistributionRow{
			Family: "F", Day: day, ExpiryDay: day,
			BinKey: bins[i], Probability: probs[i],
		}
	}
	return rows
}

func TestMomentsSymmetric(t *testing.T) {
	out := Moments(momentRows([]float64{1, 2, 3}, []float64{25, 50, 25}))

	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	m := out[0]

	if math.Abs(m.Mean-2) > 1e-9 {
		t.Errorf("Mean = %v, want 2", m.Mean)
	}
	if m.Median != 2 {
		t.Errorf("Median = %v, want 2", m.Median)
	}
	if m.Mode != 2 {
		t.Errorf("Mode = %v, want 2", m.Mode)
	}
	if math.Abs(m.Skewness) > 1e-9 {
		t.Errorf("Skewness = %v, want 0", m.Skewness)
	}
	// Var = (25*1 + 50*0 + 25*1)/100 = 0.5
	if math.Abs(m.Variance-0.5) > 1e-9 {
		t.Errorf("Variance = %v, want 0.5", m.Variance)
	}
	// Kurt = ((25*1 + 25*1)/100) / 0.5^2 = 2
	if math.Abs(m.Kurtosis-2) > 1e-9 {
		t.Errorf("Kurtosis = %v, want 2", m.Kurtosis)
	}
}

func TestMomentsSkewed(t *testing.T) {
	out := Moments(momentRows([]float64{1, 2, 3, 10}, []float64{10, 60, 20, 10}))

	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	m := out[0]

	// Mean = (10 + 120 + 60 + 100)/100 = 2.9; median and mode both 2.
	if math.Abs(m.Mean-2.9) > 1e-9 {
		t.Errorf("Mean = %v, want 2.9", m.Mean)
	}
	if m.Median != 2 {
		t.Errorf("Median = %v, want 2", m.Median)
	}
	if m.Mode != 2 {
		t.Errorf("Mode = %v, want 2", m.Mode)
	}
	if m.Skewness <= 0 {
		t.Errorf("Skewness = %v, want > 0 for a right-tailed distribution", m.Skewness)
	}
}

func TestMomentsModeTieBreak(t *testing.T) {
	out := Moments(momentRows([]float64{1, 2, 3, 4}, []float64{10, 40, 40, 10}))

	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	if out[0].Mode != 2 {
		t.Errorf("Mode = %v, want 2 (first of the tied bins in ascending order)", out[0].Mode)
	}
}

func TestMomentsWeightedMedian(t *testing.T) {
	// Cumulative weights 20, 45, 80: the smallest bin reaching half the
	// total weight is 3.
	out := Moments(momentRows([]float64{1, 3, 7}, []float64{20, 25, 35}))

	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	if out[0].Median != 3 {
		t.Errorf("Median = %v, want 3", out[0].Median)
	}
}

func TestMomentsDegenerateDropped(t *testing.T) {
	tests := []struct {
		name  string
		bins  []float64
		probs []float64
	}{
		{"single bin", []float64{2}, []float64{100}},
		{"zero total weight", []float64{1, 2}, []float64{0, 0}},
		{"all mass in one bin", []float64{1, 2, 3}, []float64{0, 100, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Moments(momentRows(tt.bins, tt.probs))
			if len(out) != 0 {
				t.Errorf("len(out) = %d, want 0 (undefined statistics excluded)", len(out))
			}
		})
	}
}
