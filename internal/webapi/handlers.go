package webapi

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/render"

	"github.com/jdkatz21/Prediction-Markets-Public/internal/config"
	"github.com/jdkatz21/Prediction-Markets-Public/internal/model"
)

// maxDistributionDates bounds how many prediction dates one request may
// compare side by side.
const maxDistributionDates = 2

func (s *Server) errorJSON(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// handleTypes lists the configured market types.
func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	names := make([]string, len(s.marketTypes))
	for i, mt := range s.marketTypes {
		names[i] = mt.Name
	}
	render.JSON(w, r, typesResponse{Types: names})
}

// handleContracts lists the contract families available for a market type,
// newest horizon first. Configured horizon overrides take precedence over
// the stored expiry days.
func (s *Server) handleContracts(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("market_type")
	if name == "" {
		s.errorJSON(w, r, http.StatusBadRequest, "market_type is required")
		return
	}
	mt := s.marketType(name)
	if mt == nil {
		s.errorJSON(w, r, http.StatusNotFound, "unknown market type "+name)
		return
	}

	families, err := s.store.Families(r.Context(), name)
	if err != nil {
		s.logger.Error("list families failed", "market_type", name, "error", err)
		s.errorJSON(w, r, http.StatusInternalServerError, "storage error")
		return
	}

	for i := range families {
		if date, ok := mt.HorizonOverrides[families[i].Family]; ok {
			if d, err := model.ParseDay(date); err == nil {
				families[i].Horizon = d
			}
		}
	}
	sort.SliceStable(families, func(i, j int) bool {
		if families[i].Horizon != families[j].Horizon {
			return families[i].Horizon > families[j].Horizon
		}
		return families[i].Family < families[j].Family
	})

	names := make([]string, len(families))
	for i, f := range families {
		names[i] = f.Family
	}
	render.JSON(w, r, contractsResponse{MarketType: name, Contracts: names})
}

// handleMoments returns a contract's daily moment summaries.
func (s *Server) handleMoments(w http.ResponseWriter, r *http.Request) {
	contract := r.URL.Query().Get("contract")
	if contract == "" {
		s.errorJSON(w, r, http.StatusBadRequest, "contract is required")
		return
	}

	rows, err := s.store.Moments(r.Context(), contract)
	if err != nil {
		s.logger.Error("moments query failed", "contract", contract, "error", err)
		s.errorJSON(w, r, http.StatusInternalServerError, "storage error")
		return
	}
	if len(rows) == 0 {
		s.errorJSON(w, r, http.StatusNotFound, "no data for contract "+contract)
		return
	}

	resp := momentsResponse{Contract: contract}
	for _, m := range rows {
		resp.Moments = append(resp.Moments, momentEntry{
			Date:     m.Day.String(),
			Mean:     m.Mean,
			Median:   m.Median,
			Mode:     m.Mode,
			Variance: m.Variance,
			Skewness: m.Skewness,
			Kurtosis: m.Kurtosis,
		})
	}
	render.JSON(w, r, resp)
}

// handlePredictionDates lists the days a contract has distributions for.
func (s *Server) handlePredictionDates(w http.ResponseWriter, r *http.Request) {
	contract := r.URL.Query().Get("contract")
	if contract == "" {
		s.errorJSON(w, r, http.StatusBadRequest, "contract is required")
		return
	}

	days, err := s.store.PredictionDays(r.Context(), contract)
	if err != nil {
		s.logger.Error("list prediction days failed", "contract", contract, "error", err)
		s.errorJSON(w, r, http.StatusInternalServerError, "storage error")
		return
	}
	if len(days) == 0 {
		s.errorJSON(w, r, http.StatusNotFound, "no data for contract "+contract)
		return
	}

	dates := make([]string, len(days))
	for i, d := range days {
		dates[i] = d.String()
	}
	render.JSON(w, r, predictionDatesResponse{Contract: contract, Dates: dates})
}

// handleContractInfo returns metadata for one contract: its horizon
// (settlement date, with any configured override applied) and the latest
// prediction dates available.
func (s *Server) handleContractInfo(w http.ResponseWriter, r *http.Request) {
	contract := r.URL.Query().Get("contract")
	if contract == "" {
		s.errorJSON(w, r, http.StatusBadRequest, "contract is required")
		return
	}

	days, err := s.store.PredictionDays(r.Context(), contract)
	if err != nil {
		s.logger.Error("contract info failed", "contract", contract, "error", err)
		s.errorJSON(w, r, http.StatusInternalServerError, "storage error")
		return
	}
	if len(days) == 0 {
		s.errorJSON(w, r, http.StatusNotFound, "no data for contract "+contract)
		return
	}

	resp := contractInfoResponse{
		Contract:             contract,
		LatestPredictionDate: days[len(days)-1].String(),
		PredictionDays:       len(days),
	}
	if len(days) > 1 {
		resp.PreviousPredictionDate = days[len(days)-2].String()
	}

	if override := s.horizonOverride(contract); override != "" {
		resp.Horizon = override
	} else {
		expiry, err := s.store.ExpiryDay(r.Context(), contract)
		if err != nil {
			s.logger.Error("expiry lookup failed", "contract", contract, "error", err)
			s.errorJSON(w, r, http.StatusInternalServerError, "storage error")
			return
		}
		resp.Horizon = expiry.String()
	}

	render.JSON(w, r, resp)
}

// handleDistribution returns the probability distribution for a contract on
// up to two prediction dates, optionally lumping the tails into boundary bins.
func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	contract := q.Get("contract")
	if contract == "" {
		s.errorJSON(w, r, http.StatusBadRequest, "contract is required")
		return
	}

	var days []model.Day
	if raw := q.Get("dates"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			d, err := model.ParseDay(strings.TrimSpace(part))
			if err != nil {
				s.errorJSON(w, r, http.StatusBadRequest, "bad date "+part)
				return
			}
			days = append(days, d)
		}
		if len(days) > maxDistributionDates {
			s.errorJSON(w, r, http.StatusBadRequest, "at most 2 dates may be requested")
			return
		}
	}

	smallest, ok := parseBinParam(q.Get("smallest_bin"))
	if !ok {
		s.errorJSON(w, r, http.StatusBadRequest, "bad smallest_bin")
		return
	}
	largest, ok := parseBinParam(q.Get("largest_bin"))
	if !ok {
		s.errorJSON(w, r, http.StatusBadRequest, "bad largest_bin")
		return
	}

	// Default to the most recent prediction date.
	if len(days) == 0 {
		all, err := s.store.PredictionDays(r.Context(), contract)
		if err != nil {
			s.logger.Error("list prediction days failed", "contract", contract, "error", err)
			s.errorJSON(w, r, http.StatusInternalServerError, "storage error")
			return
		}
		if len(all) == 0 {
			s.errorJSON(w, r, http.StatusNotFound, "no data for contract "+contract)
			return
		}
		days = all[len(all)-1:]
	}

	rows, err := s.store.Distribution(r.Context(), contract, days)
	if err != nil {
		s.logger.Error("distribution query failed", "contract", contract, "error", err)
		s.errorJSON(w, r, http.StatusInternalServerError, "storage error")
		return
	}
	if len(rows) == 0 {
		s.errorJSON(w, r, http.StatusNotFound, "no data for contract "+contract)
		return
	}

	byDay := make(map[model.Day][]model.DistributionRow)
	for _, row := range rows {
		byDay[row.Day] = append(byDay[row.Day], row)
	}

	resp := distributionResponse{Contract: contract}
	for _, day := range days {
		dayRows, ok := byDay[day]
		if !ok {
			s.errorJSON(w, r, http.StatusNotFound, "no data for "+contract+" on "+day.String())
			return
		}
		resp.Dates = append(resp.Dates, dayDistribution{
			Date: day.String(),
			Bins: lumpBins(dayRows, smallest, largest),
		})
	}

	render.JSON(w, r, resp)
}

// parseBinParam parses an optional bin boundary. Returns ok=false only for
// a present but malformed value.
func parseBinParam(raw string) (*float64, bool) {
	if raw == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, false
	}
	return &f, true
}

// lumpBins folds probability mass outside [smallest, largest] into the
// boundary bins, preserving total mass and volume.
func lumpBins(rows []model.DistributionRow, smallest, largest *float64) []binEntry {
	sort.Slice(rows, func(i, j int) bool { return rows[i].BinKey < rows[j].BinKey })

	entries := make([]binEntry, 0, len(rows))
	for _, row := range rows {
		key := row.BinKey
		if smallest != nil && key < *smallest {
			key = *smallest
		}
		if largest != nil && key > *largest {
			key = *largest
		}

		if n := len(entries); n > 0 && entries[n-1].Bin == key {
			entries[n-1].Probability += row.Probability
			entries[n-1].Volume += row.Volume
			continue
		}
		entries = append(entries, binEntry{
			Bin:           key,
			Probability:   row.Probability,
			AdjustedPrice: row.AdjustedPrice,
			Volume:        row.Volume,
		})
	}
	return entries
}

// marketType finds a configured market type by name.
func (s *Server) marketType(name string) *config.MarketTypeConfig {
	for i := range s.marketTypes {
		if s.marketTypes[i].Name == name {
			return &s.marketTypes[i]
		}
	}
	return nil
}

// horizonOverride returns the configured horizon date for a contract, or ""
// when no market type overrides it.
func (s *Server) horizonOverride(contract string) string {
	for _, mt := range s.marketTypes {
		if date, ok := mt.HorizonOverrides[contract]; ok {
			return date
		}
	}
	return ""
}
