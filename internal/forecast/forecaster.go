// Package forecast projects AQI under a local-activity scenario.
//
// A forecast resolves in two stages: the numeric projection is computed
// synchronously, while the advisory text is fetched in the background and
// can be polled or awaited through the returned Forecast handle.
package forecast

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sebasr/ecosense-service/internal/advisory"
	"github.com/sebasr/ecosense-service/internal/aqi"
	"github.com/sebasr/ecosense-service/internal/metrics"
	"github.com/sebasr/ecosense-service/internal/models"
	"github.com/sebasr/ecosense-service/internal/simulation"
)

const (
	// Confidence is the fixed confidence reported with every projection
	Confidence = 87

	// StagnationAdvisory is the fixed advisory of the numeric projection
	StagnationAdvisory = "Wind patterns suggest a stagnation of pollutants in the next 12 hours."

	// MinPredictedAQI is the floor of every projection
	MinPredictedAQI = 10

	// NeutralActivity is the activity level with no scenario effect
	NeutralActivity = 50

	// MinActivity and MaxActivity bound the scenario knob
	MinActivity = 0
	MaxActivity = 100

	// ActivityWeight converts activity points away from neutral into AQI points
	ActivityWeight = 1.5

	noiseLow  = -5.0
	noiseSpan = 15.0
)

// ClampActivity bounds an activity level to [MinActivity, MaxActivity]
func ClampActivity(level int) int {
	return max(MinActivity, min(MaxActivity, level))
}

// Forecaster turns a reading and an activity level into a projection and
// starts the advisory lookup for it.
type Forecaster struct {
	src     simulation.RandomSource
	advisor advisory.Service
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time

	wg sync.WaitGroup
}

// NewForecaster creates a forecaster drawing noise from src. timeout bounds
// each background advisory lookup; zero leaves it unbounded.
func NewForecaster(src simulation.RandomSource, advisor advisory.Service, timeout time.Duration, logger *slog.Logger) *Forecaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Forecaster{
		src:     src,
		advisor: advisor,
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
	}
}

// Predict computes the numeric projection. It cannot fail.
// Out-of-range activity levels are clamped.
func (fc *Forecaster) Predict(reading models.Reading, activityLevel int) models.PredictionResult {
	activityLevel = ClampActivity(activityLevel)

	impact := float64(activityLevel-NeutralActivity) * ActivityWeight
	noise := fc.src.Float64()*noiseSpan + noiseLow
	predicted := int(math.Round(math.Max(MinPredictedAQI, float64(reading.AQI)+impact+noise)))

	return models.PredictionResult{
		PredictedAQI: predicted,
		Level:        aqi.Classify(predicted),
		Advisory:     StagnationAdvisory,
		Confidence:   Confidence,
	}
}

// Forecast runs the projection and starts the advisory lookup in the
// background. The lookup outlives ctx cancellation but not the forecaster
// timeout; callers that lose interest simply drop the handle.
func (fc *Forecaster) Forecast(ctx context.Context, reading models.Reading, activityLevel int) *Forecast {
	activityLevel = ClampActivity(activityLevel)
	result := fc.Predict(reading, activityLevel)
	metrics.ForecastsTotal.WithLabelValues(result.Level.String()).Inc()

	f := &Forecast{
		ID:            uuid.New(),
		ActivityLevel: activityLevel,
		CreatedAt:     fc.now().UTC(),
		Reading:       reading,
		Result:        result,
		done:          make(chan struct{}),
	}

	actx := context.WithoutCancel(ctx)
	var cancel context.CancelFunc = func() {}
	if fc.timeout > 0 {
		actx, cancel = context.WithTimeout(actx, fc.timeout)
	}

	fc.wg.Add(1)
	go func() {
		defer fc.wg.Done()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				fc.logger.Error("advisory panicked", "forecast", f.ID.String(), "source", fc.advisor.Source(), "panic", r)
				f.resolve(advisory.DegradedMessage)
			}
		}()
		text := fc.advisor.GetAdvisory(actx, reading, activityLevel)
		f.resolve(text)
		fc.logger.Debug("forecast analysis resolved", "forecast", f.ID.String(), "source", fc.advisor.Source())
	}()

	return f
}

// AdvisorySource reports which advisory backend the forecaster uses
func (fc *Forecaster) AdvisorySource() string {
	return fc.advisor.Source()
}

// Drain waits for in-flight advisory lookups or until ctx ends
func (fc *Forecaster) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		fc.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
