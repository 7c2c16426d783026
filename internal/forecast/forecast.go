package forecast

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sebasr/ecosense-service/internal/models"
)

// Forecast is the handle of one scenario forecast. The numeric result is
// final on creation; the analysis resolves exactly once, later.
type Forecast struct {
	ID            uuid.UUID
	ActivityLevel int
	CreatedAt     time.Time
	Reading       models.Reading
	Result        models.PredictionResult
	RequestedBy   string // operator subject, empty when auth is off

	once sync.Once
	done chan struct{}
	text string
}

func (f *Forecast) resolve(text string) {
	f.once.Do(func() {
		f.text = text
		close(f.done)
	})
}

// Done is closed once the analysis has resolved
func (f *Forecast) Done() <-chan struct{} {
	return f.done
}

// Analysis returns the current analysis state without blocking
func (f *Forecast) Analysis() models.Analysis {
	select {
	case <-f.done:
		return models.Analysis{Status: models.AnalysisResolved, Text: f.text}
	default:
		return models.Analysis{Status: models.AnalysisPending}
	}
}

// Wait blocks until the analysis resolves or ctx ends
func (f *Forecast) Wait(ctx context.Context) (string, error) {
	select {
	case <-f.done:
		return f.text, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// ToResponse converts the forecast to its API representation
func (f *Forecast) ToResponse() models.ForecastResponse {
	return models.ForecastResponse{
		ID:            f.ID.String(),
		ActivityLevel: f.ActivityLevel,
		CreatedAt:     f.CreatedAt.Format(time.RFC3339),
		Reading:       f.Reading,
		RequestedBy:   f.RequestedBy,
		Prediction:    f.Result,
		Analysis:      f.Analysis(),
	}
}
