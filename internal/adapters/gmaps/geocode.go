package gmaps

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"

	"routesmart-service/internal/domain"
	"routesmart-service/internal/platform/obs"
	"routesmart-service/internal/ports"
)

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// GeocodeLocations resolves each location in input order. Records that
// already carry coordinates are reverse geocoded so their name becomes
// the provider's formatted address; the rest are forward geocoded from
// their name. Failures are logged and isolated: the record keeps
// whatever it had and the batch continues.
func (c *Client) GeocodeLocations(ctx context.Context, locs []*domain.Location) {
	for _, loc := range locs {
		if loc.HasCoordinates() {
			if err := c.reverseGeocode(ctx, loc); err != nil {
				log.Printf("reverse geocoding failed coords=%s err=%v", loc.CoordString(), err)
			}
			continue
		}

		if err := c.forwardGeocode(ctx, loc); err != nil {
			log.Printf("geocoding failed name=%q err=%v", loc.Name, err)
		}
	}
}

// forwardGeocode fills in coordinates from the location's name and
// replaces the name with the provider's formatted address.
func (c *Client) forwardGeocode(ctx context.Context, loc *domain.Location) (err error) {
	defer obs.Time(ctx, "gmaps.geocode")(&err)

	key := normalize(loc.Name)

	if hit, ok := c.cacheGet(ctx, key); ok {
		loc.SetCoordinates(hit.Lat, hit.Lng)
		loc.Name = hit.Name
		return nil
	}

	params := url.Values{}
	params.Set("address", key)

	decoded, err := c.fetchGeocode(ctx, params)
	if err != nil {
		return err
	}
	if len(decoded.Results) == 0 {
		return fmt.Errorf("no results for %q", loc.Name)
	}

	first := decoded.Results[0]
	loc.SetCoordinates(first.Geometry.Location.Lat, first.Geometry.Location.Lng)
	loc.Name = first.FormattedAddress

	c.cachePut(ctx, key, ports.GeocodeResult{
		Name: first.FormattedAddress,
		Lat:  first.Geometry.Location.Lat,
		Lng:  first.Geometry.Location.Lng,
	})

	log.Printf("geocoded %q -> lat=%v lng=%v", loc.Name, *loc.Latitude, *loc.Longitude)
	return nil
}

// reverseGeocode replaces the location's name with the formatted
// address of its coordinates. Coordinates are left untouched.
func (c *Client) reverseGeocode(ctx context.Context, loc *domain.Location) (err error) {
	defer obs.Time(ctx, "gmaps.reverse_geocode")(&err)

	key := loc.CoordString()

	if hit, ok := c.cacheGet(ctx, key); ok {
		loc.Name = hit.Name
		return nil
	}

	params := url.Values{}
	params.Set("latlng", key)

	decoded, err := c.fetchGeocode(ctx, params)
	if err != nil {
		return err
	}
	if len(decoded.Results) == 0 {
		return fmt.Errorf("no results for (%s)", key)
	}

	loc.Name = decoded.Results[0].FormattedAddress

	c.cachePut(ctx, key, ports.GeocodeResult{
		Name: loc.Name,
		Lat:  *loc.Latitude,
		Lng:  *loc.Longitude,
	})

	log.Printf("reverse geocoded (%s) -> %q", key, loc.Name)
	return nil
}

func (c *Client) fetchGeocode(ctx context.Context, params url.Values) (*geocodeResponse, error) {
	resp, err := c.doWithRetry(ctx, c.endpointURL("/geocode/json", params))
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}

	// ZERO_RESULTS is a valid empty answer, not an error status.
	if decoded.Status != "OK" && decoded.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("geocode status %s: %s", decoded.Status, decoded.ErrorMessage)
	}

	return &decoded, nil
}

func (c *Client) cacheGet(ctx context.Context, key string) (ports.GeocodeResult, bool) {
	if c.cache == nil {
		return ports.GeocodeResult{}, false
	}

	hit, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		log.Printf("geocode cache read failed key=%q err=%v", key, err)
		return ports.GeocodeResult{}, false
	}
	return hit, ok
}

func (c *Client) cachePut(ctx context.Context, key string, res ports.GeocodeResult) {
	if c.cache == nil {
		return
	}

	if err := c.cache.Put(ctx, key, res); err != nil {
		log.Printf("geocode cache write failed key=%q err=%v", key, err)
	}
}
