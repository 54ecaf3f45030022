package gmaps

import (
	"context"
	"fmt"

	"routesmart-service/internal/domain"
)

// MockGeocoder resolves names from a fixed table. Locations already
// carrying coordinates are renamed when a reverse entry exists.
type MockGeocoder struct {
	// Coords maps a location name to its coordinates.
	Coords map[string][2]float64
	// ReverseNames maps a "lat,lng" string to a formatted name.
	ReverseNames map[string]string
	// Calls counts processed locations.
	Calls int
}

func (g *MockGeocoder) GeocodeLocations(_ context.Context, locs []*domain.Location) {
	for _, loc := range locs {
		g.Calls++

		if loc.HasCoordinates() {
			if name, ok := g.ReverseNames[loc.CoordString()]; ok {
				loc.Name = name
			}
			continue
		}

		if c, ok := g.Coords[loc.Name]; ok {
			loc.SetCoordinates(c[0], c[1])
		}
	}
}

// MockRouteProvider replays a canned permutation and leg metrics.
type MockRouteProvider struct {
	// Order is the permutation of input indices to apply; identity when
	// empty.
	Order []int
	// LegMeters and LegSeconds describe the legs of the reordered
	// route, including the closing leg for round trips.
	LegMeters  []int
	LegSeconds []int

	Err error
}

func (p *MockRouteProvider) OptimizedRoute(
	_ context.Context,
	locs []*domain.Location,
	roundTrip bool,
) (*domain.Directions, error) {
	if p.Err != nil {
		return nil, p.Err
	}

	if len(locs) < 2 {
		return nil, fmt.Errorf("%w: at least 2 locations are required", domain.ErrInvalidInput)
	}
	for _, loc := range locs {
		if !loc.HasCoordinates() {
			return nil, fmt.Errorf("%w: location %q has no coordinates", domain.ErrGeocodingIncomplete, loc.Name)
		}
	}

	order := p.Order
	if len(order) == 0 {
		order = make([]int, len(locs))
		for i := range locs {
			order[i] = i
		}
	}

	ordered := make([]*domain.Location, 0, len(order))
	for _, idx := range order {
		ordered = append(ordered, locs[idx])
	}

	totalMeters := 0
	totalSeconds := 0
	description := make([]string, 0, len(p.LegMeters))
	for i, m := range p.LegMeters {
		totalMeters += m
		totalSeconds += p.LegSeconds[i]

		if i+1 < len(ordered) {
			km := domain.KilometersFromMeters(m)
			ordered[i+1].DistanceFromPrevious = &km
		}
		description = append(description, fmt.Sprintf("leg %d: %.2f km", i, float64(m)/1000))
	}

	zero := 0.0
	ordered[0].DistanceFromPrevious = &zero

	return &domain.Directions{
		Locations:       ordered,
		Order:           order,
		TotalDistanceKm: domain.KilometersFromMeters(totalMeters),
		TotalMinutes:    domain.MinutesFromSeconds(totalSeconds),
		Description:     description,
	}, nil
}
