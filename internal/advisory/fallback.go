package advisory

import (
	"context"
	"time"

	"github.com/sebasr/ecosense-service/internal/metrics"
	"github.com/sebasr/ecosense-service/internal/models"
)

// DefaultFallbackDelay mimics the latency of a hosted model
const DefaultFallbackDelay = 1500 * time.Millisecond

const (
	clauseHigh     = "High local activity is likely to exacerbate PM2.5 levels."
	clauseLow      = "Reduced local activity may help clear pollutants faster."
	clauseBaseline = "Standard daily patterns expected."
)

// FallbackService synthesizes advisories locally when no model is configured
type FallbackService struct {
	delay time.Duration
}

// NewFallbackService creates a fallback service that answers after delay
func NewFallbackService(delay time.Duration) *FallbackService {
	if delay < 0 {
		delay = 0
	}
	return &FallbackService{delay: delay}
}

// GetAdvisory waits out the simulated delay, or until ctx ends, and
// returns the canned advisory for the activity level.
func (s *FallbackService) GetAdvisory(ctx context.Context, _ models.Reading, activityLevel int) string {
	start := time.Now()
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
	}
	metrics.AdvisoryLatency.WithLabelValues(SourceFallback).Observe(time.Since(start).Seconds())
	metrics.AdvisoryRequests.WithLabelValues(SourceFallback, "success").Inc()
	return FallbackText(activityLevel)
}

// Source implements Service
func (s *FallbackService) Source() string { return SourceFallback }

// FallbackText builds the offline advisory for an activity level
func FallbackText(activityLevel int) string {
	clause := clauseBaseline
	switch {
	case activityLevel > 60:
		clause = clauseHigh
	case activityLevel < 40:
		clause = clauseLow
	}
	return "Running in simulation mode (No API Key). " + clause +
		" Based on current patterns and your scenario, air quality might fluctuate. Recommendation: Monitor vulnerable groups."
}
