package ports

import "context"

// Limiter throttles expensive work per client key. Implementations
// never fail a request on their own infrastructure errors; the boolean
// verdict is the whole contract.
type Limiter interface {
	// TryConsume atomically takes one token from the key's bucket,
	// creating the bucket at full capacity on first sighting. Reports
	// whether a token was taken.
	TryConsume(ctx context.Context, key string) bool

	// Remaining returns the key's current token count, or the full
	// capacity for keys that have never consumed.
	Remaining(ctx context.Context, key string) int
}
