package domain

import "errors"

// Error kinds the HTTP edge maps onto response statuses. Pipeline code
// wraps these with fmt.Errorf("...: %w", ...) so callers can classify
// with errors.Is while the full message survives for logging.
var (
	// ErrInvalidInput marks requests that fail shape or content checks.
	ErrInvalidInput = errors.New("invalid input")

	// ErrGeocodingIncomplete marks a location that reached the route
	// provider without resolved coordinates.
	ErrGeocodingIncomplete = errors.New("geocoding incomplete")

	// ErrDirectionsFailed marks provider-side routing errors: error
	// statuses, empty route sets, and malformed payloads.
	ErrDirectionsFailed = errors.New("directions failed")

	// ErrUpstreamUnavailable marks transport-level failures reaching a
	// provider.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
