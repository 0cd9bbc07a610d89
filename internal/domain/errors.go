package domain

import "errors"

var (
	// ErrNoDataForWindow signals an empty report window. It is a structured
	// outcome, not a fault: callers translate it into a "no data" response.
	ErrNoDataForWindow = errors.New("no data for window")

	// ErrSourceUnavailable wraps provider fetch failures.
	ErrSourceUnavailable = errors.New("news source unavailable")

	// ErrPersistenceWrite wraps store write failures during ingestion.
	ErrPersistenceWrite = errors.New("persistence write failed")
)
