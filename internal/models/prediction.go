package models

import "fmt"

// PollutionLevel is a qualitative AQI category, ordered from best to worst
type PollutionLevel int

const (
	LevelGood PollutionLevel = iota
	LevelModerate
	LevelUnhealthySensitive
	LevelUnhealthy
	LevelHazardous
)

var levelNames = [...]string{
	"Good",
	"Moderate",
	"Unhealthy for Sensitive Groups",
	"Unhealthy",
	"Hazardous",
}

// String returns the display name of the level
func (l PollutionLevel) String() string {
	if l >= 0 && int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "Unknown"
}

// MarshalText encodes the level by its display name
func (l PollutionLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes a level from its display name
func (l *PollutionLevel) UnmarshalText(text []byte) error {
	for i, name := range levelNames {
		if name == string(text) {
			*l = PollutionLevel(i)
			return nil
		}
	}
	return fmt.Errorf("unknown pollution level %q", text)
}

// PredictionResult is the numeric outcome of a scenario forecast
type PredictionResult struct {
	PredictedAQI int            `json:"predictedAqi"`
	Level        PollutionLevel `json:"level"`
	Advisory     string         `json:"advisory"`
	Confidence   int            `json:"confidence"`
}

// AnalysisStatus tracks the asynchronous advisory text of a forecast
type AnalysisStatus string

const (
	AnalysisPending  AnalysisStatus = "pending"
	AnalysisResolved AnalysisStatus = "resolved"
)

// Analysis is the advisory text attached to a forecast
type Analysis struct {
	Status AnalysisStatus `json:"status"`
	Text   string         `json:"text,omitempty"`
}

// ForecastResponse represents a forecast in API responses
type ForecastResponse struct {
	ID            string           `json:"id"`
	ActivityLevel int              `json:"activityLevel"`
	CreatedAt     string           `json:"createdAt"`
	Reading       Reading          `json:"reading"`
	RequestedBy   string           `json:"requestedBy,omitempty"`
	Prediction    PredictionResult `json:"prediction"`
	Analysis      Analysis         `json:"analysis"`
}
