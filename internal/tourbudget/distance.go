package tourbudget

import (
	"strings"

	"stagehand/internal/models"
)

// DefaultLegMiles is the placeholder drive between consecutive shows.
const DefaultLegMiles = 250

// DistanceEstimator returns the drive in miles between two consecutive shows.
type DistanceEstimator interface {
	Miles(from, to models.Venue) float64
}

// DistanceFunc adapts a function to DistanceEstimator.
type DistanceFunc func(from, to models.Venue) float64

// Miles calls f.
func (f DistanceFunc) Miles(from, to models.Venue) float64 {
	return f(from, to)
}

// FixedDistance treats every leg as the same length.
type FixedDistance float64

// Miles returns d regardless of the venues.
func (d FixedDistance) Miles(models.Venue, models.Venue) float64 {
	return float64(d)
}

// StateDistance is a coarse estimate from city/state alone: nothing within a
// city, SameState within a state, CrossState otherwise.
type StateDistance struct {
	SameState  float64
	CrossState float64
}

// Miles implements DistanceEstimator.
func (s StateDistance) Miles(from, to models.Venue) float64 {
	sameState := strings.EqualFold(strings.TrimSpace(from.State), strings.TrimSpace(to.State))
	switch {
	case sameState && strings.EqualFold(strings.TrimSpace(from.City), strings.TrimSpace(to.City)):
		return 0
	case sameState:
		return s.SameState
	default:
		return s.CrossState
	}
}
