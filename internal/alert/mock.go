package alert

import (
	"context"
	"sync"
)

// MockNotifier is a mock notifier implementation for testing.
// It stores delivered alerts in memory for verification in tests.
type MockNotifier struct {
	mu     sync.Mutex
	alerts []Alert

	// Err, when set, is returned from every Notify call
	Err error
}

// NewMockNotifier creates a new mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{alerts: make([]Alert, 0)}
}

// Notify records the alert.
func (n *MockNotifier) Notify(_ context.Context, a Alert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, a)
	return n.Err
}

// Alerts returns a copy of all alerts delivered so far.
func (n *MockNotifier) Alerts() []Alert {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Alert, len(n.alerts))
	copy(out, n.alerts)
	return out
}

// Reset clears all stored alerts. Useful for test cleanup.
func (n *MockNotifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = make([]Alert, 0)
}
