package gmaps

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"routesmart-service/internal/domain"
)

func TestDistanceMatrix(t *testing.T) {
	var gotQuery url.Values
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{
			"status": "OK",
			"rows": [
				{"elements": [
					{"status": "OK", "distance": {"value": 0}, "duration": {"value": 0}},
					{"status": "OK", "distance": {"value": 1000}, "duration": {"value": 60}}
				]},
				{"elements": [
					{"status": "OK", "distance": {"value": 1100}, "duration": {"value": 70}},
					{"status": "OK", "distance": {"value": 0}, "duration": {"value": 0}}
				]}
			]
		}`))
	})

	locs := []*domain.Location{
		coordLocation("A", 1, 1),
		coordLocation("B", 2, 2),
	}

	meters, seconds, err := c.DistanceMatrix(context.Background(), locs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if meters[0][1] != 1000 || meters[1][0] != 1100 {
		t.Fatalf("meters = %v", meters)
	}
	if seconds[1][0] != 70 {
		t.Fatalf("seconds = %v", seconds)
	}

	// Origins and destinations are the same pipe-joined coordinate list.
	if gotQuery.Get("origins") != "1,1|2,2" {
		t.Fatalf("origins param = %q", gotQuery.Get("origins"))
	}
	if gotQuery.Get("destinations") != gotQuery.Get("origins") {
		t.Fatal("destinations should equal origins")
	}
}

func TestDistanceMatrixUnroutablePair(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"status": "OK",
			"rows": [
				{"elements": [
					{"status": "OK", "distance": {"value": 0}, "duration": {"value": 0}},
					{"status": "ZERO_RESULTS"}
				]},
				{"elements": [
					{"status": "OK", "distance": {"value": 1100}, "duration": {"value": 70}},
					{"status": "OK", "distance": {"value": 0}, "duration": {"value": 0}}
				]}
			]
		}`))
	})

	locs := []*domain.Location{
		coordLocation("Dublin", 1, 1),
		coordLocation("New York", 2, 2),
	}

	_, _, err := c.DistanceMatrix(context.Background(), locs)
	if !errors.Is(err, domain.ErrDirectionsFailed) {
		t.Fatalf("error = %v, want ErrDirectionsFailed", err)
	}
}

func TestDistanceMatrixShapeMismatch(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "OK", "rows": [{"elements": []}]}`))
	})

	locs := []*domain.Location{
		coordLocation("A", 1, 1),
		coordLocation("B", 2, 2),
	}

	_, _, err := c.DistanceMatrix(context.Background(), locs)
	if !errors.Is(err, domain.ErrDirectionsFailed) {
		t.Fatalf("error = %v, want ErrDirectionsFailed", err)
	}
}
