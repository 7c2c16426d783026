package simulation

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidProfile is returned when a profile has an impossible channel
var ErrInvalidProfile = errors.New("invalid simulation profile")

// Channel holds the random-walk parameters of one sensor channel
type Channel struct {
	Delta float64 `yaml:"delta"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
}

// Baseline is the reading the engine starts from
type Baseline struct {
	AQI         int     `yaml:"aqi"`
	CO2         float64 `yaml:"co2"`
	PM25        float64 `yaml:"pm25"`
	PM10        float64 `yaml:"pm10"`
	Temperature float64 `yaml:"temperature"`
	Humidity    float64 `yaml:"humidity"`
}

// Profile describes a simulated station: its starting point and the drift
// of every channel.
type Profile struct {
	Baseline    Baseline `yaml:"baseline"`
	AQI         Channel  `yaml:"aqi"`
	CO2         Channel  `yaml:"co2"`
	PM25        Channel  `yaml:"pm25"`
	PM10        Channel  `yaml:"pm10"`
	Temperature Channel  `yaml:"temperature"`
	Humidity    Channel  `yaml:"humidity"`
}

// DefaultProfile returns the stock urban station profile
func DefaultProfile() Profile {
	return Profile{
		Baseline: Baseline{
			AQI:         45,
			CO2:         400,
			PM25:        12,
			PM10:        25,
			Temperature: 24,
			Humidity:    45,
		},
		AQI:         Channel{Delta: 2, Min: 10, Max: 300},
		CO2:         Channel{Delta: 10, Min: 350, Max: 1200},
		PM25:        Channel{Delta: 1.5, Min: 0, Max: 150},
		PM10:        Channel{Delta: 2, Min: 0, Max: 200},
		Temperature: Channel{Delta: 0.1, Min: 15, Max: 40},
		Humidity:    Channel{Delta: 0.5, Min: 20, Max: 90},
	}
}

// LoadProfile reads a YAML profile. Fields missing from the file keep
// their DefaultProfile values.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read simulation profile: %w", err)
	}
	p := DefaultProfile()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse simulation profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate checks channel ranges and that the baseline lies inside them
func (p Profile) Validate() error {
	channels := []struct {
		name  string
		ch    Channel
		start float64
	}{
		{"aqi", p.AQI, float64(p.Baseline.AQI)},
		{"co2", p.CO2, p.Baseline.CO2},
		{"pm25", p.PM25, p.Baseline.PM25},
		{"pm10", p.PM10, p.Baseline.PM10},
		{"temperature", p.Temperature, p.Baseline.Temperature},
		{"humidity", p.Humidity, p.Baseline.Humidity},
	}
	for _, c := range channels {
		if c.ch.Min > c.ch.Max {
			return fmt.Errorf("%w: %s min %.2f exceeds max %.2f", ErrInvalidProfile, c.name, c.ch.Min, c.ch.Max)
		}
		if c.ch.Delta < 0 {
			return fmt.Errorf("%w: %s delta must not be negative", ErrInvalidProfile, c.name)
		}
		if c.start < c.ch.Min || c.start > c.ch.Max {
			return fmt.Errorf("%w: %s baseline %.2f outside [%.2f, %.2f]", ErrInvalidProfile, c.name, c.start, c.ch.Min, c.ch.Max)
		}
	}
	if p.PM25.Min < 0 {
		return fmt.Errorf("%w: pm25 min must not be negative", ErrInvalidProfile)
	}
	return nil
}
