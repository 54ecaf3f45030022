// Package config centralises application configuration, read once at
// startup from the environment (optionally seeded from a .env file).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"

	CacheNone     = "none"
	CacheSqlite   = "sqlite"
	CachePostgres = "postgres"

	OptimizerGoogle = "google"
	OptimizerSolver = "solver"
)

type Config struct {
	Port             string
	GoogleMapsAPIKey string

	RateLimit RateLimitConfig
	Redis     RedisConfig

	// GeocodeCache selects the persistent geocode cache backend.
	GeocodeCache string
	DBPath       string
	DatabaseURL  string

	// Optimizer selects the route provider: the directions API's
	// waypoint optimiser or the delegated TSP solver service.
	Optimizer    string
	OptimizerURL string
}

type RateLimitConfig struct {
	Capacity int
	Window   time.Duration
	Store    string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	apiKey := os.Getenv("GOOGLE_MAPS_API_KEY")
	if apiKey == "" {
		return Config{}, fmt.Errorf("GOOGLE_MAPS_API_KEY is required")
	}

	rateLimit, err := buildRateLimitConfig()
	if err != nil {
		return Config{}, err
	}

	redisCfg, err := buildRedisConfig()
	if err != nil {
		return Config{}, err
	}

	geocodeCache := getEnv("GEOCODE_CACHE", CacheSqlite)
	switch geocodeCache {
	case CacheNone, CacheSqlite, CachePostgres:
	default:
		return Config{}, fmt.Errorf("invalid GEOCODE_CACHE %q", geocodeCache)
	}

	optimizer := getEnv("OPTIMIZER", OptimizerGoogle)
	optimizerURL := os.Getenv("OPTIMIZER_URL")
	switch optimizer {
	case OptimizerGoogle:
	case OptimizerSolver:
		if optimizerURL == "" {
			return Config{}, fmt.Errorf("OPTIMIZER_URL is required when OPTIMIZER=solver")
		}
	default:
		return Config{}, fmt.Errorf("invalid OPTIMIZER %q", optimizer)
	}

	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		GoogleMapsAPIKey: apiKey,
		RateLimit:        rateLimit,
		Redis:            redisCfg,
		GeocodeCache:     geocodeCache,
		DBPath:           getEnv("DB_PATH", "data/app.db"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		Optimizer:        optimizer,
		OptimizerURL:     optimizerURL,
	}

	if cfg.GeocodeCache == CachePostgres && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required when GEOCODE_CACHE=postgres")
	}
	if cfg.RateLimit.Store == StoreRedis && cfg.Redis.Addr == "" {
		return Config{}, fmt.Errorf("REDIS_ADDR is required when RATE_LIMIT_STORE=redis")
	}

	return cfg, nil
}

func buildRateLimitConfig() (RateLimitConfig, error) {
	capacity, err := strconv.Atoi(getEnv("RATE_LIMIT_CAPACITY", "10"))
	if err != nil {
		return RateLimitConfig{}, fmt.Errorf("invalid RATE_LIMIT_CAPACITY: %w", err)
	}
	if capacity <= 0 {
		return RateLimitConfig{}, fmt.Errorf("RATE_LIMIT_CAPACITY must be positive")
	}

	window, err := time.ParseDuration(getEnv("RATE_LIMIT_WINDOW", "1h"))
	if err != nil {
		return RateLimitConfig{}, fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
	}
	if window <= 0 {
		return RateLimitConfig{}, fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}

	store := getEnv("RATE_LIMIT_STORE", StoreMemory)
	if store != StoreMemory && store != StoreRedis {
		return RateLimitConfig{}, fmt.Errorf("invalid RATE_LIMIT_STORE %q", store)
	}

	return RateLimitConfig{Capacity: capacity, Window: window, Store: store}, nil
}

func buildRedisConfig() (RedisConfig, error) {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return RedisConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	return RedisConfig{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
