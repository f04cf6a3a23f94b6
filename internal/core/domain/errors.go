package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown connector or normaliser type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrIngestInProgress indicates an ingest run is already active.
	ErrIngestInProgress = errors.New("ingest in progress")

	// Metadata resolution errors.
	//
	// All four are deterministic: retrying with the same path is
	// meaningless. Callers decide whether a failure is fatal for a
	// document or merely excludes it from the batch.

	// ErrPathTooShort indicates the path has too few segments to
	// contain jurisdiction/year/month/day components.
	ErrPathTooShort = errors.New("path too short")

	// ErrNoYearFound indicates no segment parsed as a plausible
	// four-digit sitting year.
	ErrNoYearFound = errors.New("no year found in path")

	// ErrUnknownMonth indicates the month token matched neither the
	// lookup table nor a full English month name.
	ErrUnknownMonth = errors.New("unknown month")

	// ErrInvalidCalendarDate indicates the year/month/day do not form
	// a real calendar date.
	ErrInvalidCalendarDate = errors.New("invalid calendar date")
)
