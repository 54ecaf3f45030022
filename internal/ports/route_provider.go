package ports

import (
	"context"

	"routesmart-service/internal/domain"
)

// RouteProvider computes the optimal visiting order for a list of
// geocoded locations.
type RouteProvider interface {
	// OptimizedRoute reorders the intermediate stops of locs to
	// minimise total driving distance. The first location is always the
	// origin; for round trips the route returns there, otherwise the
	// last location stays the destination (provider permitting).
	//
	// Fails fast with domain.ErrInvalidInput for fewer than two
	// locations and domain.ErrGeocodingIncomplete when any location
	// lacks coordinates.
	OptimizedRoute(ctx context.Context, locs []*domain.Location, roundTrip bool) (*domain.Directions, error)
}

// MatrixProvider returns full pairwise driving metrics for a set of
// locations. Row i column j holds the leg from locs[i] to locs[j].
type MatrixProvider interface {
	DistanceMatrix(ctx context.Context, locs []*domain.Location) (meters [][]int, seconds [][]int, err error)
}
