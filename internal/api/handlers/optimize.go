package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"strings"

	"routesmart-service/internal/api/dto"
	"routesmart-service/internal/domain"
	"routesmart-service/internal/ports"
	"routesmart-service/internal/services"
)

// RouteOptimizer is the single core operation the HTTP edge consumes.
type RouteOptimizer interface {
	OptimizeRoute(ctx context.Context, req services.RouteRequest) (*services.RouteResult, error)
}

type OptimizeHandler struct {
	Optimizer RouteOptimizer
	Limiter   ports.Limiter
}

// Optimize handles POST /api/optimize: validates the request shape,
// charges the client's quota, runs the optimisation pipeline, and
// attaches the remaining quota to successful responses.
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.OptimizeRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if len(req.Locations) == 0 {
		writeError(w, r, http.StatusBadRequest, "locations list cannot be empty")
		return
	}
	if len(req.Locations) < 2 || len(req.Locations) > 10 {
		writeError(w, r, http.StatusBadRequest, "must have between 2 and 10 locations")
		return
	}
	for _, s := range req.Locations {
		if strings.TrimSpace(s) == "" {
			writeError(w, r, http.StatusBadRequest, "locations must not be blank")
			return
		}
	}
	if req.RouteType == "" {
		writeError(w, r, http.StatusBadRequest, "routeType is required")
		return
	}
	if !req.RouteType.Valid() {
		writeError(w, r, http.StatusBadRequest, "routeType must be ROUND_TRIP or ONE_WAY")
		return
	}

	client := clientAddress(r)

	if !h.Limiter.TryConsume(r.Context(), client) {
		log.Printf("rate limit exceeded client=%s", client)
		w.WriteHeader(http.StatusTooManyRequests)
		return
	}

	result, err := h.Optimizer.OptimizeRoute(r.Context(), services.RouteRequest{
		Locations: req.Locations,
		RouteType: req.RouteType,
	})
	if err != nil {
		writeOptimizeError(w, r, err)
		return
	}

	res := dto.OptimizeResponse{
		OptimizedOrder:    result.Locations,
		TotalDistanceKm:   result.TotalDistanceKm,
		TotalTimeMinutes:  result.TotalMinutes,
		IsRoundTrip:       result.RoundTrip,
		GoogleMapsURL:     result.ShareURL,
		EmbedMapURL:       result.EmbedURL,
		RemainingRequests: h.Limiter.Remaining(r.Context(), client),
		RouteDescription:  result.Description,
	}

	writeJSON(w, r, http.StatusOK, res)
}

// clientAddress resolves the throttling key: the first comma-separated
// token of X-Forwarded-For when present and non-empty, else the
// transport remote address without its port.
func clientAddress(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if first != "" {
			return first
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeOptimizeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrGeocodingIncomplete):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDirectionsFailed):
		log.Printf("directions failed: %v", err)
		writeError(w, r, http.StatusBadGateway, err.Error())
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		log.Printf("upstream unavailable: %v", err)
		writeError(w, r, http.StatusServiceUnavailable, "routing provider unavailable")
	default:
		log.Printf("optimize route failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
