// Package advisory produces the natural-language health advisory attached
// to scenario forecasts.
package advisory

import (
	"context"

	"github.com/sebasr/ecosense-service/internal/models"
)

const (
	// DegradedMessage is returned when the hosted model fails
	DegradedMessage = "AI Analysis service is temporarily unavailable. Please rely on standard AQI charts."

	// EmptyResponseMessage is returned when the hosted model answers with no text
	EmptyResponseMessage = "Analysis unavailable."
)

// Source names reported by Service.Source
const (
	SourceLive     = "live"
	SourceFallback = "fallback"
	SourceMock     = "mock"
)

// Service defines the interface for obtaining advisory text.
// Implementations include Gemini for production and a local fallback when
// no credential is configured.
type Service interface {
	// GetAdvisory returns advisory text for the reading under the given
	// activity scenario. It never fails: every error degrades to a fixed
	// message.
	GetAdvisory(ctx context.Context, reading models.Reading, activityLevel int) string

	// Source reports which backend answers, for health and metrics
	Source() string
}

// IsDegraded reports whether text is one of the fixed failure messages
func IsDegraded(text string) bool {
	return text == DegradedMessage || text == EmptyResponseMessage
}
