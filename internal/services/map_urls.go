package services

import (
	"strings"

	"routesmart-service/internal/domain"
)

// BuildShareURL produces a google.com/maps/dir link visiting the
// locations in order. Round trips append the origin once more at the
// end so the rendered route closes the loop.
func BuildShareURL(locs []*domain.Location, roundTrip bool) string {
	if len(locs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("https://www.google.com/maps/dir/")
	for _, loc := range locs {
		b.WriteString(loc.CoordString())
		b.WriteByte('/')
	}
	if roundTrip {
		b.WriteString(locs[0].CoordString())
		b.WriteByte('/')
	}

	return b.String()
}

// BuildEmbedURL produces a Maps Embed API directions URL. For round
// trips the destination is the origin and every other stop is a
// waypoint; one-way routes make the last stop the destination and the
// middle stops waypoints. The waypoints segment is omitted entirely
// when there are none.
func BuildEmbedURL(locs []*domain.Location, roundTrip bool, apiKey string) string {
	if len(locs) < 2 {
		return ""
	}

	origin := locs[0].CoordString()

	destination := origin
	waypointEnd := len(locs)
	if !roundTrip {
		destination = locs[len(locs)-1].CoordString()
		waypointEnd = len(locs) - 1
	}

	waypoints := make([]string, 0, len(locs))
	for i := 1; i < waypointEnd; i++ {
		waypoints = append(waypoints, locs[i].CoordString())
	}

	var b strings.Builder
	b.WriteString("https://www.google.com/maps/embed/v1/directions")
	b.WriteString("?key=")
	b.WriteString(apiKey)
	b.WriteString("&origin=")
	b.WriteString(origin)
	b.WriteString("&destination=")
	b.WriteString(destination)
	if len(waypoints) > 0 {
		b.WriteString("&waypoints=")
		b.WriteString(strings.Join(waypoints, "|"))
	}
	b.WriteString("&mode=driving")

	return b.String()
}
