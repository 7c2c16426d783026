package advisory

import (
	"context"
	"sync"

	"github.com/sebasr/ecosense-service/internal/models"
)

// MockService is a mock advisory service for testing.
// It records every call and answers with Response.
type MockService struct {
	mu       sync.Mutex
	Response string
	calls    []MockCall

	// Gate, when set, holds every call until it is closed or ctx ends
	Gate chan struct{}
}

// MockCall represents one advisory request seen by the mock.
type MockCall struct {
	Reading       models.Reading
	ActivityLevel int
}

// NewMockService creates a mock that answers with response
func NewMockService(response string) *MockService {
	return &MockService{Response: response}
}

// GetAdvisory records the call and returns the configured response
func (s *MockService) GetAdvisory(ctx context.Context, reading models.Reading, activityLevel int) string {
	s.mu.Lock()
	s.calls = append(s.calls, MockCall{Reading: reading, ActivityLevel: activityLevel})
	gate := s.Gate
	response := s.Response
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return DegradedMessage
		}
	}
	return response
}

// Source implements Service
func (s *MockService) Source() string { return SourceMock }

// Calls returns a copy of all recorded calls.
func (s *MockService) Calls() []MockCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]MockCall, len(s.calls))
	copy(out, s.calls)
	return out
}
