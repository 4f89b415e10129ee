package webapi

// Response shapes for the query API.

type typesResponse struct {
	Types []string `json:"types"`
}

type contractsResponse struct {
	MarketType string   `json:"market_type"`
	Contracts  []string `json:"contracts"`
}

type predictionDatesResponse struct {
	Contract string   `json:"contract"`
	Dates    []string `json:"dates"`
}

type contractInfoResponse struct {
	Contract               string `json:"contract"`
	Horizon                string `json:"horizon"`
	LatestPredictionDate   string `json:"latest_prediction_date"`
	PreviousPredictionDate string `json:"previous_prediction_date,omitempty"`
	PredictionDays         int    `json:"prediction_days"`
}

type momentEntry struct {
	Date     string  `json:"date"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Mode     float64 `json:"mode"`
	Variance float64 `json:"variance"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
}

type momentsResponse struct {
	Contract string        `json:"contract"`
	Moments  []momentEntry `json:"moments"`
}

type binEntry struct {
	Bin           float64 `json:"bin"`
	Probability   float64 `json:"probability"`
	AdjustedPrice float64 `json:"adjusted_price"`
	Volume        int64   `json:"volume"`
}

type dayDistribution struct {
	Date string     `json:"date"`
	Bins []binEntry `json:"bins"`
}

type distributionResponse struct {
	Contract string            `json:"contract"`
	Dates    []dayDistribution `json:"dates"`
}
