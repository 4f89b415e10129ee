package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// GetTrades fetches a page of executed trades.
func (c *Client) GetTrades(ctx context.Context, opts GetTradesOptions) (*TradesResponse, error) {
	query := url.Values{}

	if opts.Ticker != "" {
		query.Set("ticker", opts.Ticker)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}
	if opts.MinTS > 0 {
		query.Set("min_ts", strconv.FormatInt(opts.MinTS, 10))
	}
	if opts.MaxTS > 0 {
		query.Set("max_ts", strconv.FormatInt(opts.MaxTS, 10))
	}

	var resp TradesResponse
	if err := c.get(ctx, "/markets/trades", query, &resp); err != nil {
		return nil, fmt.Errorf("get trades: %w", err)
	}

	return &resp, nil
}

// GetAllTrades fetches the complete trade history matching the given options
// by paginating through results.
func (c *Client) GetAllTrades(ctx context.Context, opts GetTradesOptions) ([]APITrade, error) {
	var allTrades []APITrade
	if opts.Limit == 0 {
		opts.Limit = 1000 // Max page size
	}

	for {
		resp, err := c.GetTrades(ctx, opts)
		if err != nil {
			return nil, err
		}

		allTrades = append(allTrades, resp.Trades...)

		if resp.Cursor == "" {
			break
		}
		opts.Cursor = resp.Cursor
	}

	c.logger.Debug("fetched trade history",
		"ticker", opts.Ticker,
		"trades", len(allTrades),
	)

	return allTrades, nil
}
