package gmaps

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"

	"routesmart-service/internal/domain"
	"routesmart-service/internal/platform/obs"
)

type directionsLeg struct {
	Distance struct {
		Value int `json:"value"`
	} `json:"distance"`
	Duration struct {
		Value int `json:"value"`
	} `json:"duration"`
}

type directionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		WaypointOrder []int           `json:"waypoint_order"`
		Legs          []directionsLeg `json:"legs"`
	} `json:"routes"`
}

// OptimizedRoute asks the Directions API for a driving route visiting
// locs, letting the provider reorder the intermediate waypoints. For
// round trips the destination is the origin itself; otherwise the last
// location stays fixed as the destination.
func (c *Client) OptimizedRoute(
	ctx context.Context,
	locs []*domain.Location,
	roundTrip bool,
) (_ *domain.Directions, err error) {
	defer obs.Time(ctx, "gmaps.directions")(&err)

	if len(locs) < 2 {
		return nil, fmt.Errorf("%w: at least 2 locations are required", domain.ErrInvalidInput)
	}
	for _, loc := range locs {
		if !loc.HasCoordinates() {
			return nil, fmt.Errorf("%w: location %q has no coordinates", domain.ErrGeocodingIncomplete, loc.Name)
		}
	}

	origin := locs[0]
	destination := origin
	waypointEnd := len(locs)
	if !roundTrip {
		destination = locs[len(locs)-1]
		waypointEnd = len(locs) - 1
	}

	waypoints := make([]string, 0, len(locs))
	for i := 1; i < waypointEnd; i++ {
		waypoints = append(waypoints, locs[i].CoordString())
	}

	params := url.Values{}
	params.Set("origin", origin.CoordString())
	params.Set("destination", destination.CoordString())
	params.Set("mode", "driving")
	if len(waypoints) > 0 {
		params.Set("waypoints", "optimize:true|"+strings.Join(waypoints, "|"))
	}

	resp, err := c.doWithRetry(ctx, c.endpointURL("/directions/json", params))
	if err != nil {
		if isTransportError(err) {
			return nil, fmt.Errorf("%w: directions request: %v", domain.ErrUpstreamUnavailable, err)
		}
		return nil, fmt.Errorf("%w: directions request: %v", domain.ErrDirectionsFailed, err)
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode directions response: %v", domain.ErrDirectionsFailed, err)
	}

	if decoded.Status != "OK" {
		return nil, fmt.Errorf("%w: status %s: %s", domain.ErrDirectionsFailed, decoded.Status, decoded.ErrorMessage)
	}
	if len(decoded.Routes) == 0 {
		return nil, fmt.Errorf("%w: no route found between the locations", domain.ErrDirectionsFailed)
	}

	route := decoded.Routes[0]
	if !validWaypointOrder(route.WaypointOrder, len(waypoints)) {
		return nil, fmt.Errorf("%w: provider returned waypoint order %v for %d waypoints",
			domain.ErrDirectionsFailed, route.WaypointOrder, len(waypoints))
	}
	dirs := assembleDirections(locs, route.WaypointOrder, route.Legs, roundTrip)

	log.Printf("optimized route stops=%d distance_km=%.2f duration_min=%d",
		len(dirs.Locations), dirs.TotalDistanceKm, dirs.TotalMinutes)
	return dirs, nil
}

// validWaypointOrder reports whether order is a permutation of the n
// submitted waypoint indices. Anything else is a malformed payload and
// must not reach assembly.
func validWaypointOrder(order []int, n int) bool {
	if len(order) != n {
		return false
	}

	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

// assembleDirections translates the provider's waypoint permutation and
// legs into the optimised visiting order with per-leg distances and a
// human-readable description.
//
// waypointOrder indexes the submitted waypoint list, so entry wp maps
// back to locs[wp+1]. For round trips the closing return to the origin
// is implicit: the origin is not repeated in the sequence even though
// its leg contributes to the totals.
func assembleDirections(
	locs []*domain.Location,
	waypointOrder []int,
	legs []directionsLeg,
	roundTrip bool,
) *domain.Directions {
	ordered := make([]*domain.Location, 0, len(locs))
	order := make([]int, 0, len(locs))

	ordered = append(ordered, locs[0])
	order = append(order, 0)

	for _, wp := range waypointOrder {
		ordered = append(ordered, locs[wp+1])
		order = append(order, wp+1)
	}

	if !roundTrip {
		last := len(locs) - 1
		ordered = append(ordered, locs[last])
		order = append(order, last)
	}

	totalMeters := 0
	totalSeconds := 0
	description := make([]string, 0, len(legs))

	for i, leg := range legs {
		totalMeters += leg.Distance.Value
		totalSeconds += leg.Duration.Value

		if i >= len(ordered) {
			continue
		}

		if i+1 < len(ordered) {
			km := domain.KilometersFromMeters(leg.Distance.Value)
			ordered[i+1].DistanceFromPrevious = &km
		}

		toName := "destination"
		switch {
		case i+1 < len(ordered):
			toName = ordered[i+1].Name
		case roundTrip:
			toName = locs[0].Name
		}

		description = append(description, fmt.Sprintf(
			"%s -> %s: %.2f km",
			ordered[i].Name, toName, float64(leg.Distance.Value)/1000,
		))
	}

	zero := 0.0
	ordered[0].DistanceFromPrevious = &zero

	return &domain.Directions{
		Locations:       ordered,
		Order:           order,
		TotalDistanceKm: domain.KilometersFromMeters(totalMeters),
		TotalMinutes:    domain.MinutesFromSeconds(totalSeconds),
		Description:     description,
	}
}
