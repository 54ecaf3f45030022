package domain

import "strconv"

// InputType classifies how a raw location string was recognised.
// The set is closed; the parser assigns exactly one of these values.
type InputType string

const (
	InputCoordinates InputType = "COORDINATES"
	InputMapURL      InputType = "MAP_URL"
	InputPostalCode  InputType = "POSTAL_CODE"
	InputPlaceName   InputType = "PLACE_NAME"
)

// RouteType selects whether the route returns to its starting point.
type RouteType string

const (
	RoundTrip RouteType = "ROUND_TRIP"
	OneWay    RouteType = "ONE_WAY"
)

// Valid reports whether t is one of the known route types.
func (t RouteType) Valid() bool {
	return t == RoundTrip || t == OneWay
}

// Location is the uniform unit of work flowing through the pipeline:
// produced by the parser, completed by geocoding, reordered by the
// route provider. OriginalInput holds the verbatim user string and is
// never mutated after parsing. Coordinates are nil until geocoded.
type Location struct {
	Name                 string    `json:"name"`
	OriginalInput        string    `json:"original_input"`
	Latitude             *float64  `json:"latitude"`
	Longitude            *float64  `json:"longitude"`
	InputType            InputType `json:"input_type"`
	DistanceFromPrevious *float64  `json:"distance_from_previous,omitempty"`
}

// HasCoordinates reports whether both coordinates are set.
func (l *Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// SetCoordinates sets both coordinates at once.
func (l *Location) SetCoordinates(lat, lng float64) {
	l.Latitude = &lat
	l.Longitude = &lng
}

// CoordString formats the coordinates as "lat,lng" using the shortest
// decimal representation that round-trips. Empty when not yet geocoded.
func (l *Location) CoordString() string {
	if !l.HasCoordinates() {
		return ""
	}

	return strconv.FormatFloat(*l.Latitude, 'f', -1, 64) +
		"," +
		strconv.FormatFloat(*l.Longitude, 'f', -1, 64)
}
