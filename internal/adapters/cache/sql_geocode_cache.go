package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"routesmart-service/internal/platform/obs"
	"routesmart-service/internal/ports"
)

// SQLGeocodeCache is a Postgres-backed cache mapping geocode lookup
// keys to resolved places, for deployments where the cache outlives a
// single host.
type SQLGeocodeCache struct {
	DB *sql.DB
}

func NewSQLGeocodeCache(db *sql.DB) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db}
}

// InitPostgresSchema creates the cache table.
func InitPostgresSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
        cache_key TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        lat DOUBLE PRECISION NOT NULL,
        lng DOUBLE PRECISION NOT NULL
    );
	`

	if _, err := db.Exec(q); err != nil {
		return fmt.Errorf("init schema: create geocode_cache table: %w", err)
	}
	return nil
}

// Fetch a cached lookup result.
func (s *SQLGeocodeCache) Get(ctx context.Context, key string) (_ ports.GeocodeResult, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.Get")(&err)

	if s.DB == nil {
		return ports.GeocodeResult{}, false, errors.New("geocode cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return ports.GeocodeResult{}, false, errors.New("geocode cache: empty key")
	}

	q := `
	SELECT name, lat, lng
    FROM geocode_cache
    WHERE cache_key = $1;
	`

	var res ports.GeocodeResult
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&res.Name, &res.Lat, &res.Lng)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.GeocodeResult{}, false, nil
	}
	if err != nil {
		return ports.GeocodeResult{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	return res, true, nil
}

// Store a lookup result in the cache.
func (s *SQLGeocodeCache) Put(ctx context.Context, key string, res ports.GeocodeResult) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("insert geocode cache: empty key")
	}

	q := `
	INSERT INTO geocode_cache (cache_key, name, lat, lng)
    VALUES ($1, $2, $3, $4)
	ON CONFLICT (cache_key) DO UPDATE
	SET name = EXCLUDED.name,
		lat = EXCLUDED.lat,
		lng = EXCLUDED.lng;
	`

	if _, err := s.DB.ExecContext(ctx, q, key, res.Name, res.Lat, res.Lng); err != nil {
		return fmt.Errorf("insert geocode cache key=%q: %w", key, err)
	}
	return nil
}
