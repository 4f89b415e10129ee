package webapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jdkatz21/Prediction-Markets-Public/internal/config"
	"github.com/jdkatz21/Prediction-Markets-Public/internal/model"
)

// fakeStore serves canned data for handler tests.
type fakeStore struct {
	families      map[string][]model.FamilyHorizon
	distributions map[string][]model.DistributionRow
	moments       map[string][]model.MomentSummary
	expiry        map[string]model.Day
}

func (f *fakeStore) Families(_ context.Context, marketType string) ([]model.FamilyHorizon, error) {
	return f.families[marketType], nil
}

func (f *fakeStore) Moments(_ context.Context, family string) ([]model.MomentSummary, error) {
	return f.moments[family], nil
}

func (f *fakeStore) Distribution(_ context.Context, family string, days []model.Day) ([]model.DistributionRow, error) {
	var out []model.DistributionRow
	for _, row := range f.distributions[family] {
		for _, d := range days {
			if row.Day == d {
				out = append(out, row)
			}
		}
	}
	return out, nil
}

func (f *fakeStore) PredictionDays(_ context.Context, family string) ([]model.Day, error) {
	seen := make(map[model.Day]bool)
	var out []model.Day
	for _, row := range f.distributions[family] {
		if !seen[row.Day] {
			seen[row.Day] = true
			out = append(out, row.Day)
		}
	}
	return out, nil
}

func (f *fakeStore) ExpiryDay(_ context.Context, family string) (model.Day, error) {
	d, ok := f.expiry[family]
	if !ok {
		return 0, fmt.Errorf("no expiry for %s", family)
	}
	return d, nil
}

func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	day1 := model.MustDay("2025-09-01")
	day2 := model.MustDay("2025-09-02")
	expiry := model.MustDay("2025-09-17")

	dist := func(day model.Day, bin, prob, adj float64, vol int64) model.DistributionRow {
		return model.DistributionRow{
			Family: "FED-25SEP", Day: day, ExpiryDay: expiry,
			BinKey: bin, Probability: prob, AdjustedPrice: adj, Volume: vol,
		}
	}

	store := &fakeStore{
		// FED-25JUL's stored horizon is deliberately wrong; the config
		// override below pins it to the meeting date.
		families: map[string][]model.FamilyHorizon{
			"fed_levels": {
				{Family: "FED-25JUL", Horizon: model.MustDay("2099-01-01")},
				{Family: "FED-25SEP", Horizon: model.MustDay("2025-09-17")},
			},
		},
		moments: map[string][]model.MomentSummary{
			"FED-25SEP": {
				{Family: "FED-25SEP", Day: day1, ExpiryDay: expiry, Mean: 4.05, Median: 4.00, Mode: 4.00, Variance: 0.02, Skewness: 0.4, Kurtosis: 2.9},
				{Family: "FED-25SEP", Day: day2, ExpiryDay: expiry, Mean: 4.07, Median: 4.00, Mode: 4.00, Variance: 0.02, Skewness: 0.5, Kurtosis: 2.8},
			},
		},
		distributions: map[string][]model.DistributionRow{
			"FED-25SEP": {
				dist(day1, 3.75, 10, 99, 0),
				dist(day1, 4.00, 60, 89, 120),
				dist(day1, 4.25, 25, 29, 40),
				dist(day1, 4.50, 5, 4, 10),
				dist(day2, 4.00, 70, 90, 200),
				dist(day2, 4.25, 30, 20, 50),
			},
		},
		expiry: map[string]model.Day{"FED-25SEP": expiry},
	}

	marketTypes := []config.MarketTypeConfig{
		{
			Name:             "fed_levels",
			HorizonOverrides: map[string]string{"FED-25JUL": "2025-07-30"},
		},
		{Name: "headline_cpi_releases"},
	}

	srv := httptest.NewServer(New(store, marketTypes, nil).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, wantStatus int, out any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s: status = %d, want %d", url, resp.StatusCode, wantStatus)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
}

// TestHandleTypes tests the market type listing.
func TestHandleTypes(t *testing.T) {
	srv := testServer(t)

	var resp typesResponse
	getJSON(t, srv.URL+"/types", http.StatusOK, &resp)

	if len(resp.Types) != 2 {
		t.Fatalf("len(Types) = %d, want 2", len(resp.Types))
	}
	if resp.Types[0] != "fed_levels" {
		t.Errorf("Types[0] = %q, want fed_levels", resp.Types[0])
	}
}

// TestHandleContracts tests the contract listing.
func TestHandleContracts(t *testing.T) {
	srv := testServer(t)

	t.Run("ordered by horizon, newest first", func(t *testing.T) {
		var resp contractsResponse
		getJSON(t, srv.URL+"/contracts?market_type=fed_levels", http.StatusOK, &resp)
		if len(resp.Contracts) != 2 {
			t.Fatalf("len(Contracts) = %d, want 2", len(resp.Contracts))
		}
		// Alphabetical order would put FED-25JUL first; horizon order
		// (with the override applied) puts FED-25SEP first.
		if resp.Contracts[0] != "FED-25SEP" || resp.Contracts[1] != "FED-25JUL" {
			t.Errorf("Contracts = %v, want [FED-25SEP FED-25JUL]", resp.Contracts)
		}
	})

	t.Run("missing param", func(t *testing.T) {
		getJSON(t, srv.URL+"/contracts", http.StatusBadRequest, nil)
	})

	t.Run("unknown type", func(t *testing.T) {
		getJSON(t, srv.URL+"/contracts?market_type=weather", http.StatusNotFound, nil)
	})
}

// TestHandlePredictionDates tests the date listing.
func TestHandlePredictionDates(t *testing.T) {
	srv := testServer(t)

	var resp predictionDatesResponse
	getJSON(t, srv.URL+"/prediction-dates?contract=FED-25SEP", http.StatusOK, &resp)

	if len(resp.Dates) != 2 {
		t.Fatalf("len(Dates) = %d, want 2", len(resp.Dates))
	}
	if resp.Dates[0] != "2025-09-01" || resp.Dates[1] != "2025-09-02" {
		t.Errorf("Dates = %v, want [2025-09-01 2025-09-02]", resp.Dates)
	}

	getJSON(t, srv.URL+"/prediction-dates?contract=NOPE", http.StatusNotFound, nil)
}

// TestHandleContractInfo tests contract metadata.
func TestHandleContractInfo(t *testing.T) {
	srv := testServer(t)

	t.Run("horizon from stored expiry", func(t *testing.T) {
		var resp contractInfoResponse
		getJSON(t, srv.URL+"/contract-info?contract=FED-25SEP", http.StatusOK, &resp)

		if resp.Horizon != "2025-09-17" {
			t.Errorf("Horizon = %q, want 2025-09-17", resp.Horizon)
		}
		if resp.LatestPredictionDate != "2025-09-02" {
			t.Errorf("LatestPredictionDate = %q, want 2025-09-02", resp.LatestPredictionDate)
		}
		if resp.PreviousPredictionDate != "2025-09-01" {
			t.Errorf("PreviousPredictionDate = %q, want 2025-09-01", resp.PreviousPredictionDate)
		}
		if resp.PredictionDays != 2 {
			t.Errorf("PredictionDays = %d, want 2", resp.PredictionDays)
		}
	})

	t.Run("missing contract", func(t *testing.T) {
		getJSON(t, srv.URL+"/contract-info", http.StatusBadRequest, nil)
	})
}

// TestHandleMoments tests the moment summary endpoint.
func TestHandleMoments(t *testing.T) {
	srv := testServer(t)

	t.Run("per-day summaries", func(t *testing.T) {
		var resp momentsResponse
		getJSON(t, srv.URL+"/moments?contract=FED-25SEP", http.StatusOK, &resp)

		if len(resp.Moments) != 2 {
			t.Fatalf("len(Moments) = %d, want 2", len(resp.Moments))
		}
		if resp.Moments[0].Date != "2025-09-01" {
			t.Errorf("Moments[0].Date = %q, want 2025-09-01", resp.Moments[0].Date)
		}
		if resp.Moments[0].Mean != 4.05 {
			t.Errorf("Moments[0].Mean = %v, want 4.05", resp.Moments[0].Mean)
		}
	})

	t.Run("missing contract", func(t *testing.T) {
		getJSON(t, srv.URL+"/moments", http.StatusBadRequest, nil)
	})

	t.Run("unknown contract", func(t *testing.T) {
		getJSON(t, srv.URL+"/moments?contract=NOPE", http.StatusNotFound, nil)
	})
}

// TestHandleDistribution tests distribution queries.
func TestHandleDistribution(t *testing.T) {
	srv := testServer(t)

	t.Run("defaults to latest date", func(t *testing.T) {
		var resp distributionResponse
		getJSON(t, srv.URL+"/distribution?contract=FED-25SEP", http.StatusOK, &resp)

		if len(resp.Dates) != 1 {
			t.Fatalf("len(Dates) = %d, want 1", len(resp.Dates))
		}
		if resp.Dates[0].Date != "2025-09-02" {
			t.Errorf("Date = %q, want latest 2025-09-02", resp.Dates[0].Date)
		}
		if len(resp.Dates[0].Bins) != 2 {
			t.Errorf("len(Bins) = %d, want 2", len(resp.Dates[0].Bins))
		}
	})

	t.Run("two explicit dates", func(t *testing.T) {
		var resp distributionResponse
		getJSON(t, srv.URL+"/distribution?contract=FED-25SEP&dates=2025-09-01,2025-09-02", http.StatusOK, &resp)

		if len(resp.Dates) != 2 {
			t.Fatalf("len(Dates) = %d, want 2", len(resp.Dates))
		}
		if len(resp.Dates[0].Bins) != 4 {
			t.Errorf("day 1 bins = %d, want 4", len(resp.Dates[0].Bins))
		}
	})

	t.Run("more than two dates rejected", func(t *testing.T) {
		getJSON(t, srv.URL+"/distribution?contract=FED-25SEP&dates=2025-09-01,2025-09-02,2025-09-03",
			http.StatusBadRequest, nil)
	})

	t.Run("bad date rejected", func(t *testing.T) {
		getJSON(t, srv.URL+"/distribution?contract=FED-25SEP&dates=soon", http.StatusBadRequest, nil)
	})

	t.Run("lumping folds tails into boundary bins", func(t *testing.T) {
		var resp distributionResponse
		getJSON(t, srv.URL+"/distribution?contract=FED-25SEP&dates=2025-09-01&smallest_bin=4.00&largest_bin=4.25",
			http.StatusOK, &resp)

		bins := resp.Dates[0].Bins
		if len(bins) != 2 {
			t.Fatalf("len(Bins) = %d, want 2 after lumping", len(bins))
		}
		// 3.75 (10) folds into 4.00 (60); 4.50 (5) folds into 4.25 (25).
		if bins[0].Bin != 4.00 || bins[0].Probability != 70 {
			t.Errorf("bins[0] = %+v, want bin 4.00 with probability 70", bins[0])
		}
		if bins[1].Bin != 4.25 || bins[1].Probability != 30 {
			t.Errorf("bins[1] = %+v, want bin 4.25 with probability 30", bins[1])
		}
		if bins[1].Volume != 50 {
			t.Errorf("bins[1].Volume = %d, want 50", bins[1].Volume)
		}
	})

	t.Run("unknown contract", func(t *testing.T) {
		getJSON(t, srv.URL+"/distribution?contract=NOPE", http.StatusNotFound, nil)
	})
}
