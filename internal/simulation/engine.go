package simulation

import (
	"math"
	"sync"
	"time"

	"github.com/sebasr/ecosense-service/internal/models"
)

const (
	// AQIPerPM25 scales PM2.5 (µg/m³) into AQI points
	AQIPerPM25 = 3.5

	// SpikeThreshold is the draw above which a pollution spike fires (~5% of ticks)
	SpikeThreshold = 0.95

	// SpikeAmount is added to the PM2.5-derived AQI when a spike fires
	SpikeAmount = 20

	// AQIFloorRatio bounds how fast AQI may fall: at most 20% per tick
	AQIFloorRatio = 0.8
)

// Stats counts what the engine has produced so far
type Stats struct {
	Ticks  uint64
	Spikes uint64
}

// Engine owns the simulated station state and advances it one tick at a time.
// Callers only ever receive copies of the current reading.
type Engine struct {
	mu      sync.RWMutex
	profile Profile
	src     RandomSource
	now     func() time.Time
	current models.Reading
	stats   Stats
}

// NewEngine creates an engine positioned at the profile baseline.
// A nil clock uses time.Now.
func NewEngine(profile Profile, src RandomSource, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	b := profile.Baseline
	return &Engine{
		profile: profile,
		src:     src,
		now:     now,
		current: models.Reading{
			Timestamp:   now().UnixMilli(),
			AQI:         b.AQI,
			CO2:         b.CO2,
			PM25:        b.PM25,
			PM10:        b.PM10,
			Temperature: b.Temperature,
			Humidity:    b.Humidity,
		},
	}
}

// Tick drifts every channel, recomputes AQI from PM2.5 and returns the new reading.
//
// AQI is not drifted freely: it is pm25*AQIPerPM25, plus SpikeAmount on a spike,
// floored at AQIFloorRatio of the previous AQI and rounded. It may rise without
// bound but falls at most 20% per tick.
func (e *Engine) Tick() models.Reading {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.current
	p := e.profile

	// The pre-correction aqi walk still takes its draw so every channel keeps
	// its position in the random sequence.
	_ = Drift(e.src, float64(prev.AQI), p.AQI.Delta, p.AQI.Min, p.AQI.Max)

	next := models.Reading{
		Timestamp:   e.timestamp(prev.Timestamp),
		CO2:         Drift(e.src, prev.CO2, p.CO2.Delta, p.CO2.Min, p.CO2.Max),
		PM25:        Drift(e.src, prev.PM25, p.PM25.Delta, p.PM25.Min, p.PM25.Max),
		PM10:        Drift(e.src, prev.PM10, p.PM10.Delta, p.PM10.Min, p.PM10.Max),
		Temperature: Drift(e.src, prev.Temperature, p.Temperature.Delta, p.Temperature.Min, p.Temperature.Max),
		Humidity:    Drift(e.src, prev.Humidity, p.Humidity.Delta, p.Humidity.Min, p.Humidity.Max),
	}

	calculated := next.PM25 * AQIPerPM25
	if e.src.Float64() > SpikeThreshold {
		calculated += SpikeAmount
		e.stats.Spikes++
	}
	next.AQI = int(math.Round(math.Max(calculated, float64(prev.AQI)*AQIFloorRatio)))

	e.current = next
	e.stats.Ticks++
	return next
}

// Current returns a copy of the latest reading without advancing the engine
func (e *Engine) Current() models.Reading {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current
}

// Stats returns tick and spike counters
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}

// timestamp never goes backwards, even if the wall clock does
func (e *Engine) timestamp(prev int64) int64 {
	ts := e.now().UnixMilli()
	if ts < prev {
		return prev
	}
	return ts
}
