package api

import (
	"net/http"

	"routesmart-service/internal/api/handlers"
	"routesmart-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(optimizer handlers.RouteOptimizer, limiter ports.Limiter) http.Handler {
	mux := http.NewServeMux()

	optimizeHandler := &handlers.OptimizeHandler{
		Optimizer: optimizer,
		Limiter:   limiter,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/api/optimize", optimizeHandler.Optimize)

	return loggingMiddleware(mux)
}
