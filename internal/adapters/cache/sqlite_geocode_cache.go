package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"routesmart-service/internal/ports"
)

// SQLite backed cache mapping geocode lookup keys to resolved places.
// Keys are expected to be consistent (normalized query text or a
// "lat,lng" string) by the caller.
type SqliteGeocodeCache struct {
	DB *sql.DB
}

func NewSqliteGeocodeCache(db *sql.DB) *SqliteGeocodeCache {
	return &SqliteGeocodeCache{DB: db}
}

// InitSqliteSchema creates the cache table for local runs.
func InitSqliteSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
        cache_key TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        lat REAL NOT NULL,
        lng REAL NOT NULL
    );
	`

	if _, err := db.Exec(q); err != nil {
		return fmt.Errorf("init schema: create geocode_cache table: %w", err)
	}
	return nil
}

// Fetch a cached lookup result.
func (s *SqliteGeocodeCache) Get(ctx context.Context, key string) (ports.GeocodeResult, bool, error) {
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
    WHERE cache_key = ?;
	`

	var res ports.GeocodeResult
	err := s.DB.QueryRowContext(ctx, q, key).Scan(&res.Name, &res.Lat, &res.Lng)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.GeocodeResult{}, false, nil
	}
	if err != nil {
		return ports.GeocodeResult{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	return res, true, nil
}

// Store a lookup result in the cache.
func (s *SqliteGeocodeCache) Put(ctx context.Context, key string, res ports.GeocodeResult) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("insert geocode cache: empty key")
	}

	q := `
	INSERT OR REPLACE INTO geocode_cache (cache_key, name, lat, lng)
    VALUES (?, ?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, q, key, res.Name, res.Lat, res.Lng); err != nil {
		return fmt.Errorf("insert geocode cache key=%q: %w", key, err)
	}
	return nil
}
