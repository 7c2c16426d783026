// Package aqi maps Air Quality Index values to qualitative pollution levels.
package aqi

import "github.com/sebasr/ecosense-service/internal/models"

// Breakpoint is the inclusive AQI range covered by one level.
// The last breakpoint is open-ended and reports Max as -1.
type Breakpoint struct {
	Level models.PollutionLevel `json:"level"`
	Min   int                   `json:"min"`
	Max   int                   `json:"max"`
}

// upper bounds, inclusive, of every level except the last
var upperBounds = [...]int{50, 100, 150, 200}

// Classify returns the level of an AQI value. Values below zero are
// treated as Good.
func Classify(aqi int) models.PollutionLevel {
	for i, hi := range upperBounds {
		if aqi <= hi {
			return models.PollutionLevel(i)
		}
	}
	return models.LevelHazardous
}

// Breakpoints returns the level table in ascending order
func Breakpoints() []Breakpoint {
	out := make([]Breakpoint, 0, len(upperBounds)+1)
	lo := 0
	for i, hi := range upperBounds {
		out = append(out, Breakpoint{Level: models.PollutionLevel(i), Min: lo, Max: hi})
		lo = hi + 1
	}
	return append(out, Breakpoint{Level: models.LevelHazardous, Min: lo, Max: -1})
}
