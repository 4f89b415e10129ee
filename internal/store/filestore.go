package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jdkatz21/Prediction-Markets-Public/internal/config"
	"github.com/jdkatz21/Prediction-Markets-Public/internal/export"
	"github.com/jdkatz21/Prediction-Markets-Public/internal/model"
)

// FileStore serves queries from the pipeline's CSV artifacts, the way the
// original research tooling consumed them. It lets the query server run
// without a database.
type FileStore struct {
	families      map[string][]model.FamilyHorizon
	distributions map[string][]model.DistributionRow
	moments       map[string][]model.MomentSummary
}

// NewFileStore loads the distribution and moment artifacts for every
// configured market type from outputDir. Market types with no artifact yet
// are skipped.
func NewFileStore(outputDir string, marketTypes []config.MarketTypeConfig) (*FileStore, error) {
	s := &FileStore{
		families:      make(map[string][]model.FamilyHorizon),
		distributions: make(map[string][]model.DistributionRow),
		moments:       make(map[string][]model.MomentSummary),
	}

	for _, mt := range marketTypes {
		rows, err := export.ReadDistributions(export.DistributionsPath(outputDir, mt.Name))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}

		horizons := make(map[string]model.Day)
		for _, row := range rows {
			s.distributions[row.Family] = append(s.distributions[row.Family], row)
			if row.ExpiryDay > horizons[row.Family] {
				horizons[row.Family] = row.ExpiryDay
			}
		}

		fams := make([]model.FamilyHorizon, 0, len(horizons))
		for family, horizon := range horizons {
			fams = append(fams, model.FamilyHorizon{Family: family, Horizon: horizon})
		}
		sort.Slice(fams, func(i, j int) bool {
			if fams[i].Horizon != fams[j].Horizon {
				return fams[i].Horizon > fams[j].Horizon
			}
			return fams[i].Family < fams[j].Family
		})
		s.families[mt.Name] = fams

		summaries, err := export.ReadMoments(export.MomentsPath(outputDir, mt.Name))
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
			continue
		}
		for _, m := range summaries {
			s.moments[m.Family] = append(s.moments[m.Family], m)
		}
	}

	return s, nil
}

// Families lists a market type's families, newest horizon first.
func (s *FileStore) Families(_ context.Context, marketType string) ([]model.FamilyHorizon, error) {
	return s.families[marketType], nil
}

// Distribution returns a family's rows for the given days; an empty day
// list returns every day.
func (s *FileStore) Distribution(_ context.Context, family string, days []model.Day) ([]model.DistributionRow, error) {
	rows := s.distributions[family]
	if len(days) == 0 {
		return rows, nil
	}

	want := make(map[model.Day]bool, len(days))
	for _, d := range days {
		want[d] = true
	}
	var out []model.DistributionRow
	for _, row := range rows {
		if want[row.Day] {
			out = append(out, row)
		}
	}
	return out, nil
}

// PredictionDays lists the days a family has distributions for, ascending.
func (s *FileStore) PredictionDays(_ context.Context, family string) ([]model.Day, error) {
	seen := make(map[model.Day]bool)
	var out []model.Day
	for _, row := range s.distributions[family] {
		if !seen[row.Day] {
			seen[row.Day] = true
			out = append(out, row.Day)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// ExpiryDay returns the expiry day recorded for a family.
func (s *FileStore) ExpiryDay(_ context.Context, family string) (model.Day, error) {
	rows := s.distributions[family]
	if len(rows) == 0 {
		return 0, fmt.Errorf("no data for family %s", family)
	}
	return rows[0].ExpiryDay, nil
}

// Moments returns a family's moment summaries, ordered by day.
func (s *FileStore) Moments(_ context.Context, family string) ([]model.MomentSummary, error) {
	out := s.moments[family]
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}
