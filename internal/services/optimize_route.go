package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"routesmart-service/internal/domain"
	"routesmart-service/internal/ports"
)

// RouteRequest is a validated optimisation request.
type RouteRequest struct {
	Locations []string
	RouteType domain.RouteType
}

// RouteResult is the assembled outcome of one optimisation. The HTTP
// edge adds the client's remaining quota before responding.
type RouteResult struct {
	Locations       []*domain.Location
	TotalDistanceKm float64
	TotalMinutes    int
	RoundTrip       bool
	ShareURL        string
	EmbedURL        string
	Description     []string
}

// RouteOptimizer drives the parse -> geocode -> optimise -> assemble
// pipeline behind the service's single public operation.
type RouteOptimizer struct {
	Geocoder ports.Geocoder
	Provider ports.RouteProvider

	// APIKey signs the embeddable map URL in responses.
	APIKey string
}

// OptimizeRoute resolves each input string, fills in coordinates, asks
// the route provider for the optimal visiting order, and assembles the
// shareable result. Within the request, records keep their input order
// until the provider reorders them.
func (o *RouteOptimizer) OptimizeRoute(ctx context.Context, req RouteRequest) (*RouteResult, error) {
	if len(req.Locations) < 2 {
		return nil, fmt.Errorf("%w: at least 2 locations are required", domain.ErrInvalidInput)
	}
	for i, s := range req.Locations {
		if strings.TrimSpace(s) == "" {
			return nil, fmt.Errorf("%w: location %d is blank", domain.ErrInvalidInput, i)
		}
	}
	if !req.RouteType.Valid() {
		return nil, fmt.Errorf("%w: unknown route type %q", domain.ErrInvalidInput, req.RouteType)
	}

	locs := ParseLocations(req.Locations)
	for _, loc := range locs {
		log.Printf("parsed location input=%q type=%s name=%q", loc.OriginalInput, loc.InputType, loc.Name)
	}

	o.Geocoder.GeocodeLocations(ctx, locs)

	roundTrip := req.RouteType == domain.RoundTrip
	dirs, err := o.Provider.OptimizedRoute(ctx, locs, roundTrip)
	if err != nil {
		return nil, fmt.Errorf("optimize route: %w", err)
	}

	return &RouteResult{
		Locations:       dirs.Locations,
		TotalDistanceKm: dirs.TotalDistanceKm,
		TotalMinutes:    dirs.TotalMinutes,
		RoundTrip:       roundTrip,
		ShareURL:        BuildShareURL(dirs.Locations, roundTrip),
		EmbedURL:        BuildEmbedURL(dirs.Locations, roundTrip, o.APIKey),
		Description:     dirs.Description,
	}, nil
}
