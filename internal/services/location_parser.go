package services

import (
	"regexp"
	"strconv"
	"strings"

	"routesmart-service/internal/domain"
)

var (
	// Raw "lat,lng" input. Both halves need a decimal point so plain
	// integer pairs like "1,2" stay ordinary place names.
	coordinatesPattern = regexp.MustCompile(`^(-?\d+\.\d+),\s*(-?\d+\.\d+)$`)

	// Eircode: one letter, two alphanumerics, optional space, four
	// alphanumerics (D01 F5P2, D6W F4E2, A65F4E2).
	eircodePattern = regexp.MustCompile(`(?i)^[A-Z][0-9A-Z]{2} ?[A-Z0-9]{4}$`)

	// Coordinate extraction patterns for map-service URLs, tried in
	// order: ?q=lat,lng then @lat,lng then /place/lat,lng.
	mapURLCoordPatterns = []*regexp.Regexp{
		regexp.MustCompile(`[?&]q=(-?\d+\.\d+),(-?\d+\.\d+)`),
		regexp.MustCompile(`@(-?\d+\.\d+),(-?\d+\.\d+)`),
		regexp.MustCompile(`/place/(-?\d+\.\d+),(-?\d+\.\d+)`),
	}
)

// ParseLocations classifies each free-form input string in order.
func ParseLocations(inputs []string) []*domain.Location {
	locs := make([]*domain.Location, 0, len(inputs))
	for _, input := range inputs {
		locs = append(locs, ParseLocation(input))
	}
	return locs
}

// ParseLocation maps one free-form input string to a Location by trying
// a fixed sequence of recognisers; the first match wins. Parsing never
// fails: anything unrecognised becomes a plain place name. The verbatim
// input is preserved in OriginalInput regardless of classification.
func ParseLocation(input string) *domain.Location {
	trimmed := strings.TrimSpace(input)

	if m := coordinatesPattern.FindStringSubmatch(trimmed); m != nil {
		return parseCoordinates(input, m)
	}

	if isMapURL(trimmed) {
		if loc := parseMapURL(input, trimmed); loc != nil {
			return loc
		}
		// A map URL without extractable coordinates becomes a place
		// name with the URL as its name; the remaining recognisers are
		// skipped.
		return placeName(input, trimmed)
	}

	if cleaned, ok := matchEircode(trimmed); ok {
		return &domain.Location{
			Name:          cleaned,
			OriginalInput: input,
			InputType:     domain.InputPostalCode,
		}
	}

	return placeName(input, trimmed)
}

func parseCoordinates(input string, m []string) *domain.Location {
	// The pattern guarantees both halves parse.
	lat, _ := strconv.ParseFloat(m[1], 64)
	lng, _ := strconv.ParseFloat(m[2], 64)

	loc := &domain.Location{
		Name:          "Current Location",
		OriginalInput: input,
		InputType:     domain.InputCoordinates,
	}
	loc.SetCoordinates(lat, lng)
	return loc
}

func isMapURL(s string) bool {
	return strings.Contains(s, "google.com/maps") || strings.Contains(s, "goo.gl/maps")
}

func parseMapURL(input, trimmed string) *domain.Location {
	for _, p := range mapURLCoordPatterns {
		m := p.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}

		lat, _ := strconv.ParseFloat(m[1], 64)
		lng, _ := strconv.ParseFloat(m[2], 64)

		loc := &domain.Location{
			Name:          "Custom Location",
			OriginalInput: input,
			InputType:     domain.InputMapURL,
		}
		loc.SetCoordinates(lat, lng)
		return loc
	}

	return nil
}

func matchEircode(trimmed string) (string, bool) {
	// Collapse internal whitespace runs before matching so "D01  F5P2"
	// still reads as a postal code.
	cleaned := strings.Join(strings.Fields(trimmed), " ")
	if !eircodePattern.MatchString(cleaned) {
		return "", false
	}
	return strings.ToUpper(cleaned), true
}

func placeName(input, trimmed string) *domain.Location {
	return &domain.Location{
		Name:          trimmed,
		OriginalInput: input,
		InputType:     domain.InputPlaceName,
	}
}
