package advisory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/sebasr/ecosense-service/internal/metrics"
	"github.com/sebasr/ecosense-service/internal/models"
)

// DefaultModel is the hosted model used when none is configured
const DefaultModel = "gemini-2.5-flash"

// ErrMissingAPIKey is returned when a live service is requested without a credential
var ErrMissingAPIKey = errors.New("advisory: missing api key")

// generator is the slice of the model client the service needs
type generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

type genaiGenerator struct {
	models *genai.Models
}

func (g genaiGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// GeminiService implements the Service interface using the Gemini API.
type GeminiService struct {
	gen     generator
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewGeminiService creates a Gemini-backed advisory service.
// model defaults to DefaultModel; a zero timeout leaves calls bounded only
// by the caller's context.
func NewGeminiService(ctx context.Context, apiKey, model string, timeout time.Duration, logger *slog.Logger) (*GeminiService, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return newGeminiService(genaiGenerator{models: client.Models}, model, timeout, logger), nil
}

func newGeminiService(gen generator, model string, timeout time.Duration, logger *slog.Logger) *GeminiService {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GeminiService{gen: gen, model: model, timeout: timeout, logger: logger}
}

// GetAdvisory asks the model for a three-sentence advisory
func (s *GeminiService) GetAdvisory(ctx context.Context, reading models.Reading, activityLevel int) string {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := s.gen.Generate(ctx, s.model, BuildPrompt(reading, activityLevel))
	metrics.AdvisoryLatency.WithLabelValues(SourceLive).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.AdvisoryRequests.WithLabelValues(SourceLive, "error").Inc()
		s.logger.Warn("advisory request failed", "model", s.model, "err", err)
		return DegradedMessage
	}
	if text == "" {
		metrics.AdvisoryRequests.WithLabelValues(SourceLive, "empty").Inc()
		return EmptyResponseMessage
	}
	metrics.AdvisoryRequests.WithLabelValues(SourceLive, "success").Inc()
	return text
}

// Source implements Service
func (s *GeminiService) Source() string { return SourceLive }
