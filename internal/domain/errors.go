package domain

import "errors"

// Error taxonomy for the ingestion pipeline. Failures are classified by
// wrapping one of these sentinels; callers match with errors.Is.
//
// Authorization and validation failures happen before any side effect.
// Storage failures abort the pipeline before metadata commits. Failures
// after the metadata commit (backlinks, search) are logged and surfaced
// as warnings, never as errors.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalid      = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrStorage      = errors.New("storage failure")
	ErrInternal     = errors.New("internal error")
)
