// Package config loads and validates YAML configuration for the scraper,
// pipeline, and query server commands.
//
// Per-market-type conventions (aggregation policy, probability convention,
// strike interval, data-quality exclusions) are declarative records here so
// the pipeline stages never branch on family names.
package config
