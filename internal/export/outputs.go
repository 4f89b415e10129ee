package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/jdkatz21/Prediction-Markets-Public/internal/model"
)

// distributionCSV mirrors one row of a daily distribution output file.
type distributionCSV struct {
	Date             string  `csv:"date"`
	ExpiryDate       string  `csv:"expiry_date"`
	ContractPreamble string  `csv:"contract_preamble"`
	Strike           float64 `csv:"strike"`
	Probability      float64 `csv:"probability"`
	AdjustedPrice    float64 `csv:"adjusted_price"`
	DailyVolume      int64   `csv:"daily_volume"`
	Synthetic        bool    `csv:"synthetic"`
}

// momentCSV mirrors one row of a moment summary output file.
type momentCSV struct {
	Date             string  `csv:"date"`
	ExpiryDate       string  `csv:"expiry_date"`
	ContractPreamble string  `csv:"contract_preamble"`
	Mean             float64 `csv:"mean"`
	Median           float64 `csv:"median"`
	Mode             float64 `csv:"mode"`
	Variance         float64 `csv:"variance"`
	Skewness         float64 `csv:"skewness"`
	Kurtosis         float64 `csv:"kurtosis"`
}

// DistributionsPath returns the distribution artifact path for a market type.
func DistributionsPath(outputDir, marketType string) string {
	return filepath.Join(outputDir, "daily_distribution_data_"+marketType+".csv")
}

// MomentsPath returns the moment summary artifact path for a market type.
func MomentsPath(outputDir, marketType string) string {
	return filepath.Join(outputDir, "moments_"+marketType+".csv")
}

// WriteDistributions writes distribution rows to a CSV file.
func WriteDistributions(path string, rows []model.DistributionRow) error {
	out := make([]*distributionCSV, len(rows))
	for i, r := range rows {
		out[i] = &distributionCSV{
			Date:             r.Day.String(),
			ExpiryDate:       r.ExpiryDay.String(),
			ContractPreamble: r.Family,
			Strike:           r.BinKey,
			Probability:      r.Probability,
			AdjustedPrice:    r.AdjustedPrice,
			DailyVolume:      r.Volume,
			Synthetic:        r.Synthetic,
		}
	}
	return writeCSV(path, &out)
}

// WriteMoments writes moment summaries to a CSV file.
func WriteMoments(path string, rows []model.MomentSummary) error {
	out := make([]*momentCSV, len(rows))
	for i, m := range rows {
		out[i] = &momentCSV{
			Date:             m.Day.String(),
			ExpiryDate:       m.ExpiryDay.String(),
			ContractPreamble: m.Family,
			Mean:             m.Mean,
			Median:           m.Median,
			Mode:             m.Mode,
			Variance:         m.Variance,
			Skewness:         m.Skewness,
			Kurtosis:         m.Kurtosis,
		}
	}
	return writeCSV(path, &out)
}

// ReadDistributions loads a previously written distribution file.
func ReadDistributions(path string) ([]model.DistributionRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open distribution file: %w", err)
	}
	defer f.Close()

	var rows []*distributionCSV
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parse distribution file %s: %w", path, err)
	}

	out := make([]model.DistributionRow, 0, len(rows))
	for _, r := range rows {
		day, err := model.ParseDay(r.Date)
		if err != nil {
			return nil, fmt.Errorf("distribution file %s: %w", path, err)
		}
		expiry, err := model.ParseDay(r.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("distribution file %s: %w", path, err)
		}
		out = append(out, model.DistributionRow{
			Family:        r.ContractPreamble,
			Day:           day,
			ExpiryDay:     expiry,
			BinKey:        r.Strike,
			AdjustedPrice: r.AdjustedPrice,
			Probability:   r.Probability,
			Volume:        r.DailyVolume,
			Synthetic:     r.Synthetic,
		})
	}
	return out, nil
}

// ReadMoments loads a previously written moment summary file.
func ReadMoments(path string) ([]model.MomentSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open moments file: %w", err)
	}
	defer f.Close()

	var rows []*momentCSV
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parse moments file %s: %w", path, err)
	}

	out := make([]model.MomentSummary, 0, len(rows))
	for _, r := range rows {
		day, err := model.ParseDay(r.Date)
		if err != nil {
			return nil, fmt.Errorf("moments file %s: %w", path, err)
		}
		expiry, err := model.ParseDay(r.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("moments file %s: %w", path, err)
		}
		out = append(out, model.MomentSummary{
			Family:    r.ContractPreamble,
			Day:       day,
			ExpiryDay: expiry,
			Mean:      r.Mean,
			Median:    r.Median,
			Mode:      r.Mode,
			Variance:  r.Variance,
			Skewness:  r.Skewness,
			Kurtosis:  r.Kurtosis,
		})
	}
	return out, nil
}

// writeCSV marshals rows to path, creating parent directories first.
func writeCSV(path string, rows any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(rows, f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
