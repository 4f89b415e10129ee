// Package api provides a client for the Kalshi REST API.
//
// The scraper only needs the public trades feed, so the client surface is
// small: cursor-paginated GET /markets/trades per ticker. Requests are
// signed with RSA-PSS when a signer is configured; the trades endpoint
// works unauthenticated against the demo environment.
package api
