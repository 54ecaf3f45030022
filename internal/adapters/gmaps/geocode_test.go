package gmaps

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"routesmart-service/internal/domain"
	"routesmart-service/internal/ports"
)

type memoryCache struct {
	entries map[string]ports.GeocodeResult
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]ports.GeocodeResult)}
}

func (c *memoryCache) Get(_ context.Context, key string) (ports.GeocodeResult, bool, error) {
	hit, ok := c.entries[key]
	return hit, ok, nil
}

func (c *memoryCache) Put(_ context.Context, key string, res ports.GeocodeResult) error {
	c.entries[key] = res
	return nil
}

func TestGeocodeLocationsForward(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("address"); got != "Spire of Dublin" {
			t.Errorf("address param = %q", got)
		}
		w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "Spire of Dublin, North City, Dublin, Ireland",
				"geometry": {"location": {"lat": 53.3498, "lng": -6.2603}}
			}]
		}`))
	})

	loc := &domain.Location{
		Name:          "Spire of Dublin",
		OriginalInput: "Spire of Dublin",
		InputType:     domain.InputPlaceName,
	}
	c.GeocodeLocations(context.Background(), []*domain.Location{loc})

	if !loc.HasCoordinates() {
		t.Fatal("location should have coordinates after geocoding")
	}
	if *loc.Latitude != 53.3498 || *loc.Longitude != -6.2603 {
		t.Fatalf("coordinates = %v,%v", *loc.Latitude, *loc.Longitude)
	}
	if loc.Name != "Spire of Dublin, North City, Dublin, Ireland" {
		t.Fatalf("name = %q, want formatted address", loc.Name)
	}
	if loc.OriginalInput != "Spire of Dublin" {
		t.Fatalf("original input mutated to %q", loc.OriginalInput)
	}
}

func TestGeocodeLocationsReverseKeepsCoordinates(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("latlng"); got != "53.3498,-6.2603" {
			t.Errorf("latlng param = %q", got)
		}
		w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "O'Connell Street Upper, Dublin, Ireland",
				"geometry": {"location": {"lat": 53.34981, "lng": -6.26031}}
			}]
		}`))
	})

	loc := coordLocation("53.3498,-6.2603", 53.3498, -6.2603)
	c.GeocodeLocations(context.Background(), []*domain.Location{loc})

	if loc.Name != "O'Connell Street Upper, Dublin, Ireland" {
		t.Fatalf("name = %q, want formatted address", loc.Name)
	}
	// Reverse geocoding must never move the point the user gave.
	if *loc.Latitude != 53.3498 || *loc.Longitude != -6.2603 {
		t.Fatalf("coordinates changed to %v,%v", *loc.Latitude, *loc.Longitude)
	}
}

func TestGeocodeLocationsZeroResultsLeavesRecord(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	})

	loc := &domain.Location{
		Name:          "Atlantis",
		OriginalInput: "Atlantis",
		InputType:     domain.InputPlaceName,
	}
	c.GeocodeLocations(context.Background(), []*domain.Location{loc})

	if loc.HasCoordinates() {
		t.Fatal("unresolvable location should stay without coordinates")
	}
	if loc.Name != "Atlantis" {
		t.Fatalf("name = %q, want the original name kept", loc.Name)
	}
}

func TestGeocodeLocationsFailureIsolated(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("address") == "Atlantis" {
			w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
			return
		}
		w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "Galway, Ireland",
				"geometry": {"location": {"lat": 53.2707, "lng": -9.0568}}
			}]
		}`))
	})

	atlantis := &domain.Location{Name: "Atlantis", OriginalInput: "Atlantis", InputType: domain.InputPlaceName}
	galway := &domain.Location{Name: "Galway", OriginalInput: "Galway", InputType: domain.InputPlaceName}

	c.GeocodeLocations(context.Background(), []*domain.Location{atlantis, galway})

	if calls != 2 {
		t.Fatalf("calls = %d, want the batch to continue past a failure", calls)
	}
	if atlantis.HasCoordinates() {
		t.Fatal("atlantis should stay unresolved")
	}
	if !galway.HasCoordinates() {
		t.Fatal("galway should still be geocoded")
	}
}

func TestForwardGeocodeCacheHitSkipsProvider(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("cache hit should not reach the provider")
	})

	cache := newMemoryCache()
	cache.entries["Spire of Dublin"] = ports.GeocodeResult{
		Name: "Spire of Dublin, North City, Dublin, Ireland",
		Lat:  53.3498,
		Lng:  -6.2603,
	}
	c.cache = cache

	loc := &domain.Location{
		Name:          "Spire   of  Dublin",
		OriginalInput: "Spire of Dublin",
		InputType:     domain.InputPlaceName,
	}
	c.GeocodeLocations(context.Background(), []*domain.Location{loc})

	if !loc.HasCoordinates() || *loc.Latitude != 53.3498 {
		t.Fatalf("cache hit should fill coordinates, got %+v", loc)
	}
	if loc.Name != "Spire of Dublin, North City, Dublin, Ireland" {
		t.Fatalf("name = %q, want cached formatted address", loc.Name)
	}
}

func TestForwardGeocodeWritesThroughCache(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "Galway, Ireland",
				"geometry": {"location": {"lat": 53.2707, "lng": -9.0568}}
			}]
		}`))
	})

	cache := newMemoryCache()
	c.cache = cache

	loc := &domain.Location{Name: "Galway", OriginalInput: "Galway", InputType: domain.InputPlaceName}
	c.GeocodeLocations(context.Background(), []*domain.Location{loc})

	stored, ok := cache.entries["Galway"]
	if !ok {
		t.Fatal("result should be written to the cache")
	}
	if stored.Name != "Galway, Ireland" || stored.Lat != 53.2707 {
		t.Fatalf("cached entry = %+v", stored)
	}
}

func TestEndpointURLAppendsKey(t *testing.T) {
	c, err := NewClient("secret", nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	raw := c.endpointURL("/geocode/json", url.Values{"address": {"Dublin"}})

	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	if parsed.Query().Get("key") != "secret" {
		t.Fatalf("key = %q", parsed.Query().Get("key"))
	}
	if parsed.Query().Get("address") != "Dublin" {
		t.Fatalf("address = %q", parsed.Query().Get("address"))
	}
}
