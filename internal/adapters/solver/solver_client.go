// Package solver delegates route ordering to an external TSP solver
// micro-service. The solver receives a pre-computed driving distance
// matrix and returns a visiting permutation; this client translates
// that permutation back into the same result shape the directions
// provider produces, so orchestration code cannot tell them apart.
package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"routesmart-service/internal/domain"
	"routesmart-service/internal/platform/obs"
	"routesmart-service/internal/ports"
)

type Client struct {
	session *http.Client
	baseURL string
	matrix  ports.MatrixProvider
}

func NewClient(baseURL string, matrix ports.MatrixProvider) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("solver base URL is empty")
	}
	if matrix == nil {
		return nil, errors.New("solver requires a matrix provider")
	}

	return &Client{
		session: &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		matrix:  matrix,
	}, nil
}

type optimizeRequest struct {
	Locations      []*domain.Location `json:"locations"`
	DistanceMatrix [][]int            `json:"distance_matrix"`
	IsRoundTrip    bool               `json:"is_round_trip"`
}

type optimizeResponse struct {
	OptimizedOrder      []int `json:"optimized_order"`
	TotalDistanceMeters int   `json:"total_distance_meters"`
}

// OptimizedRoute builds the full pairwise distance matrix, sends it to
// the solver, and reconstructs legs and totals from the returned
// permutation. Unlike the directions provider, the solver is free to
// end a one-way route at any stop; only the origin is pinned.
func (c *Client) OptimizedRoute(
	ctx context.Context,
	locs []*domain.Location,
	roundTrip bool,
) (_ *domain.Directions, err error) {
	defer obs.Time(ctx, "solver.optimize")(&err)

	if len(locs) < 2 {
		return nil, fmt.Errorf("%w: at least 2 locations are required", domain.ErrInvalidInput)
	}
	for _, loc := range locs {
		if !loc.HasCoordinates() {
			return nil, fmt.Errorf("%w: location %q has no coordinates", domain.ErrGeocodingIncomplete, loc.Name)
		}
	}

	meters, seconds, err := c.matrix.DistanceMatrix(ctx, locs)
	if err != nil {
		return nil, fmt.Errorf("solver optimize: %w", err)
	}

	decoded, err := c.postOptimize(ctx, optimizeRequest{
		Locations:      locs,
		DistanceMatrix: meters,
		IsRoundTrip:    roundTrip,
	})
	if err != nil {
		return nil, err
	}

	order := decoded.OptimizedOrder
	if !validPermutation(order, len(locs)) {
		return nil, fmt.Errorf("%w: solver returned order %v for %d locations", domain.ErrDirectionsFailed, order, len(locs))
	}

	dirs := assembleFromMatrix(locs, order, meters, seconds, roundTrip)

	log.Printf("solver route stops=%d distance_km=%.2f duration_min=%d",
		len(dirs.Locations), dirs.TotalDistanceKm, dirs.TotalMinutes)
	return dirs, nil
}

// Health probes the solver's liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("solver health request: %w", err)
	}

	resp, err := c.session.Do(req)
	if err != nil {
		return fmt.Errorf("solver health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("solver health: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) postOptimize(ctx context.Context, body optimizeRequest) (*optimizeResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal solver request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/optimize", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create solver request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: solver request: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: solver status %d", domain.ErrDirectionsFailed, resp.StatusCode)
	}

	var decoded optimizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode solver response: %v", domain.ErrDirectionsFailed, err)
	}

	return &decoded, nil
}

func validPermutation(order []int, n int) bool {
	if len(order) != n {
		return false
	}

	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return order[0] == 0
}

// assembleFromMatrix reconstructs per-leg metrics for the solver's
// permutation from the matrices, in the same shape and description
// format the directions provider produces.
func assembleFromMatrix(
	locs []*domain.Location,
	order []int,
	meters [][]int,
	seconds [][]int,
	roundTrip bool,
) *domain.Directions {
	ordered := make([]*domain.Location, 0, len(order))
	for _, idx := range order {
		ordered = append(ordered, locs[idx])
	}

	totalMeters := 0
	totalSeconds := 0
	description := make([]string, 0, len(order))

	for i := 1; i < len(order); i++ {
		legMeters := meters[order[i-1]][order[i]]
		totalMeters += legMeters
		totalSeconds += seconds[order[i-1]][order[i]]

		km := domain.KilometersFromMeters(legMeters)
		ordered[i].DistanceFromPrevious = &km

		description = append(description, fmt.Sprintf(
			"%s -> %s: %.2f km",
			ordered[i-1].Name, ordered[i].Name, float64(legMeters)/1000,
		))
	}

	if roundTrip {
		last := order[len(order)-1]
		legMeters := meters[last][order[0]]
		totalMeters += legMeters
		totalSeconds += seconds[last][order[0]]

		description = append(description, fmt.Sprintf(
			"%s -> %s: %.2f km",
			ordered[len(ordered)-1].Name, ordered[0].Name, float64(legMeters)/1000,
		))
	}

	zero := 0.0
	ordered[0].DistanceFromPrevious = &zero

	return &domain.Directions{
		Locations:       ordered,
		Order:           order,
		TotalDistanceKm: domain.KilometersFromMeters(totalMeters),
		TotalMinutes:    domain.MinutesFromSeconds(totalSeconds),
		Description:     description,
	}
}
