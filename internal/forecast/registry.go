package forecast

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a forecast is unknown or already evicted
var ErrNotFound = errors.New("forecast not found")

// DefaultRetention is the number of forecasts a registry keeps by default
const DefaultRetention = 50

// Registry keeps the most recent forecasts so clients can poll their
// analysis. The oldest forecast is evicted once capacity is reached.
type Registry struct {
	mu       sync.RWMutex
	capacity int
	order    []uuid.UUID
	items    map[uuid.UUID]*Forecast
}

// NewRegistry creates a registry holding at most capacity forecasts
func NewRegistry(capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultRetention
	}
	return &Registry{
		capacity: capacity,
		order:    make([]uuid.UUID, 0, capacity),
		items:    make(map[uuid.UUID]*Forecast, capacity),
	}
}

// Add stores a forecast, evicting the oldest when full
func (r *Registry) Add(f *Forecast) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[f.ID]; exists {
		r.items[f.ID] = f
		return
	}
	if len(r.order) == r.capacity {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.items, oldest)
	}
	r.order = append(r.order, f.ID)
	r.items[f.ID] = f
}

// Get returns a forecast by ID
func (r *Registry) Get(id uuid.UUID) (*Forecast, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return f, nil
}

// Len returns the number of forecasts held
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
