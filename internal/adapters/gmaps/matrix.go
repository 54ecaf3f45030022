package gmaps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"routesmart-service/internal/domain"
	"routesmart-service/internal/platform/obs"
)

type matrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value int `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value int `json:"value"`
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// DistanceMatrix fetches the full n x n driving distance and duration
// matrices for locs from the Distance Matrix API. Every location must
// already have coordinates.
func (c *Client) DistanceMatrix(
	ctx context.Context,
	locs []*domain.Location,
) (meters [][]int, seconds [][]int, err error) {
	defer obs.Time(ctx, "gmaps.matrix")(&err)

	coords := make([]string, 0, len(locs))
	for _, loc := range locs {
		if !loc.HasCoordinates() {
			return nil, nil, fmt.Errorf("%w: location %q has no coordinates", domain.ErrGeocodingIncomplete, loc.Name)
		}
		coords = append(coords, loc.CoordString())
	}

	joined := strings.Join(coords, "|")

	params := url.Values{}
	params.Set("origins", joined)
	params.Set("destinations", joined)
	params.Set("mode", "driving")

	resp, err := c.doWithRetry(ctx, c.endpointURL("/distancematrix/json", params))
	if err != nil {
		if isTransportError(err) {
			return nil, nil, fmt.Errorf("%w: matrix request: %v", domain.ErrUpstreamUnavailable, err)
		}
		return nil, nil, fmt.Errorf("%w: matrix request: %v", domain.ErrDirectionsFailed, err)
	}
	defer resp.Body.Close()

	var decoded matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, nil, fmt.Errorf("%w: decode matrix response: %v", domain.ErrDirectionsFailed, err)
	}

	if decoded.Status != "OK" {
		return nil, nil, fmt.Errorf("%w: matrix status %s: %s", domain.ErrDirectionsFailed, decoded.Status, decoded.ErrorMessage)
	}
	if len(decoded.Rows) != len(locs) {
		return nil, nil, fmt.Errorf("%w: matrix returned %d rows for %d locations", domain.ErrDirectionsFailed, len(decoded.Rows), len(locs))
	}

	meters = make([][]int, len(locs))
	seconds = make([][]int, len(locs))
	for i, row := range decoded.Rows {
		if len(row.Elements) != len(locs) {
			return nil, nil, fmt.Errorf("%w: matrix row %d has %d elements for %d locations", domain.ErrDirectionsFailed, i, len(row.Elements), len(locs))
		}

		meters[i] = make([]int, len(locs))
		seconds[i] = make([]int, len(locs))
		for j, el := range row.Elements {
			if el.Status != "OK" {
				return nil, nil, fmt.Errorf("%w: no driving route from %q to %q (%s)", domain.ErrDirectionsFailed, locs[i].Name, locs[j].Name, el.Status)
			}
			meters[i][j] = el.Distance.Value
			seconds[i][j] = el.Duration.Value
		}
	}

	return meters, seconds, nil
}
