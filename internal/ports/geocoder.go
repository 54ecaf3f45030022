package ports

import (
	"context"

	"routesmart-service/internal/domain"
)

// Geocoder resolves locations in place: forward geocoding fills missing
// coordinates, reverse geocoding turns coordinate-only inputs into
// human-readable names.
type Geocoder interface {
	// GeocodeLocations processes locations sequentially in input order.
	// Individual lookup failures are logged and skipped, never
	// returned; a location the directory cannot resolve keeps its nil
	// coordinates and is rejected downstream.
	GeocodeLocations(ctx context.Context, locs []*domain.Location)
}
