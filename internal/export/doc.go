// Package export reads and writes the CSV files the pipeline exchanges with
// the outside world: raw trade-level data from the scraper and the daily
// distribution and moment outputs.
package export
