package ports

import "context"

// GeocodeResult is one resolved directory lookup.
type GeocodeResult struct {
	Name string
	Lat  float64
	Lng  float64
}

// GeocodeCache persists resolved lookups across restarts so repeated
// inputs do not hit the paid directory API again. Keys are normalized
// query strings for forward lookups and "lat,lng" strings for reverse
// lookups; normalization is the caller's job.
type GeocodeCache interface {
	Get(ctx context.Context, key string) (GeocodeResult, bool, error)
	Put(ctx context.Context, key string, res GeocodeResult) error
}
