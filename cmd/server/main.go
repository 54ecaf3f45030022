package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"routesmart-service/internal/adapters/cache"
	"routesmart-service/internal/adapters/gmaps"
	"routesmart-service/internal/adapters/ratelimit"
	"routesmart-service/internal/adapters/solver"
	"routesmart-service/internal/api"
	"routesmart-service/internal/config"
	"routesmart-service/internal/platform/db"
	"routesmart-service/internal/ports"
	"routesmart-service/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (Google Maps, solver, caches, limiter
// stores) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	geocodeCache, closeCache, err := openGeocodeCache(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if closeCache != nil {
		defer closeCache()
	}

	maps, err := gmaps.NewClient(cfg.GoogleMapsAPIKey, geocodeCache)
	if err != nil {
		log.Fatal(err)
	}

	provider, err := openRouteProvider(cfg, maps)
	if err != nil {
		log.Fatal(err)
	}

	limiter, closeLimiter, err := openLimiter(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeLimiter()

	optimizer := &services.RouteOptimizer{
		Geocoder: maps,
		Provider: provider,
		APIKey:   cfg.GoogleMapsAPIKey,
	}

	router := api.NewRouter(optimizer, limiter)

	// Timeouts are tuned for cold-cache route optimisation (external
	// API latency).
	log.Printf("Server listening addr=:%s optimizer=%s cache=%s limiter=%s",
		cfg.Port, cfg.Optimizer, cfg.GeocodeCache, cfg.RateLimit.Store)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openGeocodeCache(cfg config.Config) (ports.GeocodeCache, func(), error) {
	switch cfg.GeocodeCache {
	case config.CacheNone:
		return nil, nil, nil

	case config.CacheSqlite:
		sdb, err := openSqlite(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		if err := cache.InitSqliteSchema(sdb); err != nil {
			sdb.Close()
			return nil, nil, err
		}
		return cache.NewSqliteGeocodeCache(sdb), func() { sdb.Close() }, nil

	case config.CachePostgres:
		pdb, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return cache.NewSQLGeocodeCache(pdb), func() { pdb.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unknown geocode cache %q", cfg.GeocodeCache)
}

func openRouteProvider(cfg config.Config, maps *gmaps.Client) (ports.RouteProvider, error) {
	if cfg.Optimizer != config.OptimizerSolver {
		return maps, nil
	}

	sol, err := solver.NewClient(cfg.OptimizerURL, maps)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sol.Health(ctx); err != nil {
		log.Printf("solver health check failed: %v", err)
	}

	return sol, nil
}

func openLimiter(cfg config.Config) (ports.Limiter, func(), error) {
	if cfg.RateLimit.Store == config.StoreRedis {
		rl, err := ratelimit.New(ratelimit.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.RateLimit.Capacity, cfg.RateLimit.Window)
		if err != nil {
			return nil, nil, err
		}
		return rl, func() { rl.Close() }, nil
	}

	tb := services.NewTokenBucketLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Window)
	return tb, tb.Close, nil
}

func openSqlite(dbPath string) (*sql.DB, error) {
	sdb, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %q: %w", dbPath, err)
	}

	if err := sdb.Ping(); err != nil {
		return nil, fmt.Errorf("verify sqlite connection to %q: %w", dbPath, err)
	}

	return sdb, nil
}
