package alert

import (
	"context"
	"sync"

	"github.com/sebasr/ecosense-service/internal/aqi"
	"github.com/sebasr/ecosense-service/internal/models"
)

// ThresholdSink is a reading sink that notifies once when AQI reaches the
// threshold and once when it falls back below it.
type ThresholdSink struct {
	station   string
	threshold int
	notifier  Notifier

	mu     sync.Mutex
	active bool
}

// NewThresholdSink creates a sink alerting on readings with AQI >= threshold
func NewThresholdSink(station string, threshold int, notifier Notifier) *ThresholdSink {
	return &ThresholdSink{
		station:   station,
		threshold: threshold,
		notifier:  notifier,
	}
}

// Name implements simulation.Sink
func (s *ThresholdSink) Name() string { return "alert" }

// Active reports whether an alert is currently raised
func (s *ThresholdSink) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Publish implements simulation.Sink
func (s *ThresholdSink) Publish(ctx context.Context, r models.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	above := r.AQI >= s.threshold
	if above == s.active {
		return nil
	}

	kind := KindCleared
	if above {
		kind = KindRaised
	}
	err := s.notifier.Notify(ctx, Alert{
		Station:   s.station,
		Kind:      kind,
		Threshold: s.threshold,
		Level:     aqi.Classify(r.AQI),
		Reading:   r,
	})
	if err != nil {
		// State is left unchanged so the next reading retries delivery
		return err
	}
	s.active = above
	return nil
}
