// Package webapi serves the processed distributions over HTTP for research
// front ends: market types, contract listings, per-day probability
// distributions with optional bin lumping, and contract metadata.
package webapi
