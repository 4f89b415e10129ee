package api

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jdkatz21/Prediction-Markets-Public/internal/model"
)

// ParseTimestamp parses an ISO 8601 timestamp to microseconds since epoch.
// Returns 0 for empty or invalid input.
func ParseTimestamp(iso string) int64 {
	if iso == "" {
		return 0
	}

	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		// Try without timezone
		t, err = time.Parse("2006-01-02T15:04:05", iso)
		if err != nil {
			return 0
		}
	}

	return t.UnixMicro()
}

// ToModel converts an APITrade to a model.TradeRecord.
func (t *APITrade) ToModel() (model.TradeRecord, error) {
	id, err := uuid.Parse(t.TradeID)
	if err != nil {
		return model.TradeRecord{}, fmt.Errorf("trade %q: bad trade_id: %w", t.TradeID, err)
	}

	ts := ParseTimestamp(t.CreatedTime)
	if ts == 0 {
		return model.TradeRecord{}, fmt.Errorf("trade %s: bad created_time %q", t.TradeID, t.CreatedTime)
	}

	return model.TradeRecord{
		TradeID:   id,
		Ticker:    t.Ticker,
		CreatedTS: ts,
		Price:     t.YesPrice,
		Size:      t.Count,
		TakerSide: t.TakerSide == "yes",
	}, nil
}
