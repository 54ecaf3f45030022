package services

import (
	"strings"
	"testing"

	"routesmart-service/internal/domain"
)

func coordLoc(name string, lat, lng float64) *domain.Location {
	loc := &domain.Location{Name: name, OriginalInput: name, InputType: domain.InputPlaceName}
	loc.SetCoordinates(lat, lng)
	return loc
}

func TestBuildShareURLOneWay(t *testing.T) {
	locs := []*domain.Location{
		coordLoc("A", 53.3498, -6.2603),
		coordLoc("B", 53.2707, -9.0568),
	}

	got := BuildShareURL(locs, false)
	want := "https://www.google.com/maps/dir/53.3498,-6.2603/53.2707,-9.0568/"
	if got != want {
		t.Fatalf("url = %q, want %q", got, want)
	}
}

func TestBuildShareURLRoundTripRepeatsOrigin(t *testing.T) {
	locs := []*domain.Location{
		coordLoc("A", 53.3498, -6.2603),
		coordLoc("B", 53.2707, -9.0568),
		coordLoc("C", 52.668, -8.6305),
	}

	got := BuildShareURL(locs, true)
	if !strings.HasSuffix(got, "/53.3498,-6.2603/") {
		t.Fatalf("round-trip url should end with the origin again, got %q", got)
	}
	if strings.Count(got, "53.3498,-6.2603") != 2 {
		t.Fatalf("origin should appear exactly twice, got %q", got)
	}
}

func TestBuildEmbedURLRoundTrip(t *testing.T) {
	locs := []*domain.Location{
		coordLoc("A", 1.0, 2.0),
		coordLoc("B", 3.0, 4.0),
		coordLoc("C", 5.0, 6.0),
	}

	got := BuildEmbedURL(locs, true, "KEY123")
	want := "https://www.google.com/maps/embed/v1/directions" +
		"?key=KEY123&origin=1,2&destination=1,2&waypoints=3,4|5,6&mode=driving"
	if got != want {
		t.Fatalf("url = %q, want %q", got, want)
	}
}

func TestBuildEmbedURLOneWay(t *testing.T) {
	locs := []*domain.Location{
		coordLoc("A", 1.0, 2.0),
		coordLoc("B", 3.0, 4.0),
		coordLoc("C", 5.0, 6.0),
	}

	got := BuildEmbedURL(locs, false, "KEY123")
	want := "https://www.google.com/maps/embed/v1/directions" +
		"?key=KEY123&origin=1,2&destination=5,6&waypoints=3,4&mode=driving"
	if got != want {
		t.Fatalf("url = %q, want %q", got, want)
	}
}

func TestBuildEmbedURLOmitsEmptyWaypoints(t *testing.T) {
	locs := []*domain.Location{
		coordLoc("A", 1.0, 2.0),
		coordLoc("B", 3.0, 4.0),
	}

	got := BuildEmbedURL(locs, false, "KEY123")
	if strings.Contains(got, "waypoints") {
		t.Fatalf("one-way pair must not have a waypoints segment, got %q", got)
	}
}
