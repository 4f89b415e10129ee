package api

// APITrade is a single executed trade as returned by GET /markets/trades.
type APITrade struct {
	TradeID     string `json:"trade_id"`
	Ticker      string `json:"ticker"`
	Count       int    `json:"count"`
	CreatedTime string `json:"created_time"`
	YesPrice    int    `json:"yes_price"`
	NoPrice     int    `json:"no_price"`
	TakerSide   string `json:"taker_side"`
}

// TradesResponse is one page of the trades feed.
type TradesResponse struct {
	Trades []APITrade `json:"trades"`
	Cursor string     `json:"cursor"`
}

// GetTradesOptions filters a trades request.
type GetTradesOptions struct {
	Ticker string
	Limit  int
	Cursor string
	MinTS  int64 // seconds since epoch, inclusive
	MaxTS  int64 // seconds since epoch, exclusive
}
