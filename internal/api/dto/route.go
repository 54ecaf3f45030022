package dto

import "routesmart-service/internal/domain"

type OptimizeRequest struct {
	Locations []string         `json:"locations"`
	RouteType domain.RouteType `json:"routeType"`
}

type OptimizeResponse struct {
	OptimizedOrder    []*domain.Location `json:"optimizedOrder"`
	TotalDistanceKm   float64            `json:"totalDistanceKm"`
	TotalTimeMinutes  int                `json:"totalTimeMinutes"`
	IsRoundTrip       bool               `json:"isRoundTrip"`
	GoogleMapsURL     string             `json:"googleMapsUrl"`
	EmbedMapURL       string             `json:"embedMapUrl"`
	RemainingRequests int                `json:"remainingRequests"`
	RouteDescription  []string           `json:"routeDescription"`
}
