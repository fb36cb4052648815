package domain

import "errors"

var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoSession means no sleep stage data exists in the detector's
	// look-back window. Expected when asking for "today" before any sleep
	// has been recorded.
	ErrNoSession = errors.New("no sleep session found in look-back window")

	// ErrMetricUnavailable means a metric has no samples in the requested
	// interval even after the same-day fallback.
	ErrMetricUnavailable = errors.New("metric unavailable for interval")

	// ErrBaselineUnavailable means too few days of history exist for a
	// rolling baseline.
	ErrBaselineUnavailable = errors.New("insufficient history for baseline")

	// ErrScoreNotYetAvailable means the score for the requested date cannot
	// be computed yet. Distinct from a low score and from ErrNotFound.
	ErrScoreNotYetAvailable = errors.New("score not yet available")

	// ErrPersistence wraps storage failures. Retryable; handlers answer
	// with 503 rather than a generic server error.
	ErrPersistence = errors.New("persistence failure")
)
