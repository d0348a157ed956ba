// Package aggregate fans the per-file review pipeline out over a set of
// retrieved files and folds the outcomes into a repository-wide review.
//
// Concurrency is bounded by a semaphore with a configurable in-flight cap,
// and an optional per-file deadline converts a hung review into a failed
// outcome. Outcomes are indexed by original file position so the final
// ordering is reproducible regardless of completion order.
package aggregate
