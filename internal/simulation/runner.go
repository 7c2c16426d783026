package simulation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sebasr/ecosense-service/internal/metrics"
	"github.com/sebasr/ecosense-service/internal/models"
)

// Sink receives every reading produced by the runner
type Sink interface {
	// Name identifies the sink in logs and metrics
	Name() string

	// Publish delivers one reading. Errors are logged by the runner and
	// never stop the tick loop.
	Publish(ctx context.Context, r models.Reading) error
}

// Runner drives an Engine on a fixed cadence and fans readings out to the
// history window and any configured sinks.
type Runner struct {
	engine   *Engine
	history  *History
	interval time.Duration
	sinks    []Sink
	logger   *slog.Logger

	mu      sync.RWMutex
	station models.Station
}

// NewRunner creates a runner for the given engine and history window
func NewRunner(name string, engine *Engine, history *History, interval time.Duration, logger *slog.Logger, sinks ...Sink) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		engine:   engine,
		history:  history,
		interval: interval,
		sinks:    sinks,
		logger:   logger,
		station: models.Station{
			ID:        uuid.New(),
			Name:      name,
			StartedAt: time.Now(),
			Interval:  interval,
		},
	}
}

// AddSink registers another sink. It must be called before Run.
func (r *Runner) AddSink(s Sink) {
	r.sinks = append(r.sinks, s)
}

// Run ticks until ctx is cancelled. Each tick finishes, sinks included,
// before the next one can start.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("simulation runner started",
		"station", r.station.ID.String(), "interval", r.interval.String(), "sinks", len(r.sinks))

	for {
		select {
		case <-ctx.Done():
			stats := r.engine.Stats()
			r.logger.Info("simulation runner stopped", "ticks", stats.Ticks, "spikes", stats.Spikes)
			return
		case <-ticker.C:
			r.Step(ctx)
		}
	}
}

// Step performs a single tick and returns the new reading
func (r *Runner) Step(ctx context.Context) models.Reading {
	spikesBefore := r.engine.Stats().Spikes
	reading := r.engine.Tick()
	r.history.Append(reading)

	metrics.TicksTotal.Inc()
	if r.engine.Stats().Spikes > spikesBefore {
		metrics.SpikesTotal.Inc()
		r.logger.Debug("pollution spike injected", "aqi", reading.AQI, "pm25", reading.PM25)
	}
	metrics.ObserveReading(reading.AQI, reading.CO2, reading.PM25, reading.PM10, reading.Temperature, reading.Humidity)

	for _, sink := range r.sinks {
		r.publish(ctx, sink, reading)
	}

	r.mu.Lock()
	ts := reading.Time()
	r.station.LastTickAt = &ts
	r.station.TickCount++
	r.mu.Unlock()

	return reading
}

func (r *Runner) publish(ctx context.Context, sink Sink, reading models.Reading) {
	pctx, cancel := context.WithTimeout(ctx, r.interval)
	defer cancel()

	if err := sink.Publish(pctx, reading); err != nil {
		metrics.SinkPublishes.WithLabelValues(sink.Name(), "error").Inc()
		r.logger.Warn("sink publish failed", "sink", sink.Name(), "err", err, "timestamp", reading.Timestamp)
		return
	}
	metrics.SinkPublishes.WithLabelValues(sink.Name(), "success").Inc()
}

// Station returns a copy of the station status
func (r *Runner) Station() models.Station {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := r.station
	if s.LastTickAt != nil {
		ts := *s.LastTickAt
		s.LastTickAt = &ts
	}
	return s
}

// Engine returns the engine driven by this runner
func (r *Runner) Engine() *Engine {
	return r.engine
}

// History returns the reading window fed by this runner
func (r *Runner) History() *History {
	return r.history
}
