package services

import (
	"testing"

	"routesmart-service/internal/domain"
)

func TestParseRawCoordinates(t *testing.T) {
	loc := ParseLocation("-17.8252,31.0335")

	if loc.InputType != domain.InputCoordinates {
		t.Fatalf("input type = %s, want COORDINATES", loc.InputType)
	}
	if loc.Name != "Current Location" {
		t.Fatalf("name = %q, want Current Location", loc.Name)
	}
	if !loc.HasCoordinates() {
		t.Fatal("expected coordinates to be set")
	}
	if *loc.Latitude != -17.8252 || *loc.Longitude != 31.0335 {
		t.Fatalf("coords = %v,%v, want -17.8252,31.0335", *loc.Latitude, *loc.Longitude)
	}
}

func TestParseNegativeZeroCoordinates(t *testing.T) {
	loc := ParseLocation("-0.0,0.0")

	if loc.InputType != domain.InputCoordinates {
		t.Fatalf("input type = %s, want COORDINATES", loc.InputType)
	}
	if *loc.Latitude != 0 || *loc.Longitude != 0 {
		t.Fatalf("coords = %v,%v, want 0,0", *loc.Latitude, *loc.Longitude)
	}
}

func TestParseIntegerPairIsNotCoordinates(t *testing.T) {
	// Coordinates require a decimal point in both halves.
	loc := ParseLocation("1,2")

	if loc.InputType != domain.InputPlaceName {
		t.Fatalf("input type = %s, want PLACE_NAME", loc.InputType)
	}
	if loc.Name != "1,2" {
		t.Fatalf("name = %q, want the raw input", loc.Name)
	}
	if loc.HasCoordinates() {
		t.Fatal("expected no coordinates")
	}
}

func TestParseMapURLVariants(t *testing.T) {
	cases := []struct {
		input string
		lat   float64
		lng   float64
	}{
		{"https://www.google.com/maps?q=-17.8252,31.0335", -17.8252, 31.0335},
		{"https://www.google.com/maps/@-17.8252,31.0335,15z", -17.8252, 31.0335},
		{"https://www.google.com/maps/place/53.3498,-6.2603", 53.3498, -6.2603},
		{"https://goo.gl/maps/abc?q=1.5,2.5", 1.5, 2.5},
	}

	for _, c := range cases {
		loc := ParseLocation(c.input)

		if loc.InputType != domain.InputMapURL {
			t.Fatalf("%q: input type = %s, want MAP_URL", c.input, loc.InputType)
		}
		if loc.Name != "Custom Location" {
			t.Fatalf("%q: name = %q, want Custom Location", c.input, loc.Name)
		}
		if *loc.Latitude != c.lat || *loc.Longitude != c.lng {
			t.Fatalf("%q: coords = %v,%v, want %v,%v",
				c.input, *loc.Latitude, *loc.Longitude, c.lat, c.lng)
		}
	}
}

func TestParseMapURLWithoutCoordinates(t *testing.T) {
	// A map URL the extractors cannot read becomes a place name with
	// the URL itself as the name.
	input := "https://www.google.com/maps/place/Harare"
	loc := ParseLocation(input)

	if loc.InputType != domain.InputPlaceName {
		t.Fatalf("input type = %s, want PLACE_NAME", loc.InputType)
	}
	if loc.Name != input {
		t.Fatalf("name = %q, want the URL", loc.Name)
	}
	if loc.HasCoordinates() {
		t.Fatal("expected no coordinates")
	}
}

func TestParseEircode(t *testing.T) {
	cases := []struct {
		input string
		name  string
	}{
		{"D01 F5P2", "D01 F5P2"},
		{"D01F5P2", "D01F5P2"},
		{"d01 f5p2", "D01 F5P2"},
		{"D6W F4E2", "D6W F4E2"},
		{"a65f4e2", "A65F4E2"},
		{"D01   F5P2", "D01 F5P2"},
	}

	for _, c := range cases {
		loc := ParseLocation(c.input)

		if loc.InputType != domain.InputPostalCode {
			t.Fatalf("%q: input type = %s, want POSTAL_CODE", c.input, loc.InputType)
		}
		if loc.Name != c.name {
			t.Fatalf("%q: name = %q, want %q", c.input, loc.Name, c.name)
		}
		if loc.HasCoordinates() {
			t.Fatalf("%q: expected no coordinates", c.input)
		}
	}
}

func TestParsePlaceNameFallback(t *testing.T) {
	loc := ParseLocation("  Harare, Zimbabwe  ")

	if loc.InputType != domain.InputPlaceName {
		t.Fatalf("input type = %s, want PLACE_NAME", loc.InputType)
	}
	if loc.Name != "Harare, Zimbabwe" {
		t.Fatalf("name = %q, want trimmed input", loc.Name)
	}
	if loc.OriginalInput != "  Harare, Zimbabwe  " {
		t.Fatalf("original input = %q, want verbatim input", loc.OriginalInput)
	}
}

func TestParsePreservesOriginalInput(t *testing.T) {
	inputs := []string{
		" -17.8252,31.0335 ",
		"d01 f5p2",
		"https://www.google.com/maps/@1.0,2.0,10z",
		"Dublin Castle",
	}

	for _, input := range inputs {
		loc := ParseLocation(input)
		if loc.OriginalInput != input {
			t.Fatalf("original input = %q, want %q", loc.OriginalInput, input)
		}
	}
}

func TestParseLocationsKeepsOrderAndTypes(t *testing.T) {
	locs := ParseLocations([]string{
		"-17.8252,31.0335",
		"D01 F5P2",
		"Harare, Zimbabwe",
	})

	if len(locs) != 3 {
		t.Fatalf("expected 3 locations, got %d", len(locs))
	}

	want := []domain.InputType{
		domain.InputCoordinates,
		domain.InputPostalCode,
		domain.InputPlaceName,
	}
	for i, typ := range want {
		if locs[i].InputType != typ {
			t.Fatalf("location %d: input type = %s, want %s", i, locs[i].InputType, typ)
		}
	}
}
