// Package alert raises notifications when station air quality crosses a
// configured AQI threshold.
package alert

import (
	"context"

	"github.com/sebasr/ecosense-service/internal/models"
)

// Kind distinguishes an alert being raised from one being cleared
type Kind string

const (
	KindRaised  Kind = "raised"
	KindCleared Kind = "cleared"
)

// Alert describes one threshold crossing
type Alert struct {
	Station   string
	Kind      Kind
	Threshold int
	Level     models.PollutionLevel
	Reading   models.Reading
}

// Notifier defines the interface for delivering alerts.
// Implementations include Console for local runs and Mock for testing.
type Notifier interface {
	// Notify delivers a single alert. Returns an error if delivery fails.
	Notify(ctx context.Context, a Alert) error
}
