// Package pipeline converts raw prediction-market trades into daily
// probability distributions and their moments.
//
// The batch runs as a fixed sequence of table-to-table transforms:
//
//	normalize -> aggregate -> fill gaps -> monotone repair ->
//	extract probabilities -> smooth -> moments
//
// Each stage consumes the previous stage's table and produces a new one;
// nothing is mutated in place. All keys partition by contract family, so the
// runner processes families concurrently after one global min/max-day
// reduction.
package pipeline
