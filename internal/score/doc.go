// Package score derives reduced signals from a parsed document: a weighted
// trust score and a collaboration readiness assessment.
//
// Both reductions are pure functions over a document snapshot. Results are
// never persisted as part of the document; they are recomputed on demand and
// carry the source epoch so a consumer can detect staleness against a newer
// epoch. Thresholds are exact integer comparisons, reproducible bit for bit.
package score
