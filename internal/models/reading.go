// Package models contains data models for the EcoSense service.
package models

import (
	"time"
)

// Reading is an immutable snapshot of the simulated environmental sensor
type Reading struct {
	// Milliseconds since the Unix epoch, non-decreasing across ticks
	Timestamp int64 `json:"timestamp"`

	// Air Quality Index derived from PM2.5
	AQI int `json:"aqi"`

	// Carbon dioxide in ppm
	CO2 float64 `json:"co2"`

	// Fine particulate matter in µg/m³
	PM25 float64 `json:"pm25"`

	// Coarse particulate matter in µg/m³
	PM10 float64 `json:"pm10"`

	// Temperature in °C
	Temperature float64 `json:"temperature"`

	// Relative humidity in %
	Humidity float64 `json:"humidity"`
}

// Time returns the reading timestamp as a time.Time
func (r Reading) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}
