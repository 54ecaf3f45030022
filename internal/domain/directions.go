package domain

import "math"

// Directions is an optimised route as returned by a route provider.
//
// Locations holds the visiting order starting at the origin. For round
// trips the implicit return to the origin is not repeated in the slice
// (the closing leg is still counted in the totals and description).
// Order is the permutation of original input indices that was applied.
type Directions struct {
	Locations       []*Location
	Order           []int
	TotalDistanceKm float64
	TotalMinutes    int
	Description     []string
}

// KilometersFromMeters converts meters to kilometers rounded to two
// decimals via scaled integer arithmetic, so equal inputs always yield
// bit-identical outputs regardless of formatting.
func KilometersFromMeters(meters int) float64 {
	return math.Round(float64(meters)/10) / 100
}

// MinutesFromSeconds converts seconds to whole minutes, rounding up.
func MinutesFromSeconds(seconds int) int {
	return int(math.Ceil(float64(seconds) / 60))
}
