package simulation

import (
	"sync"

	"github.com/sebasr/ecosense-service/internal/models"
)

// DefaultHistorySize is the number of readings kept for charts
const DefaultHistorySize = 30

// History is a fixed-capacity window of readings in insertion order.
// When full, appending evicts the oldest reading.
type History struct {
	mu    sync.RWMutex
	buf   []models.Reading
	start int
	size  int
}

// NewHistory creates a window holding at most capacity readings.
// A non-positive capacity falls back to DefaultHistorySize.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &History{buf: make([]models.Reading, capacity)}
}

// Append adds a reading, evicting the oldest one when the window is full
func (h *History) Append(r models.Reading) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.size < len(h.buf) {
		h.buf[(h.start+h.size)%len(h.buf)] = r
		h.size++
		return
	}
	h.buf[h.start] = r
	h.start = (h.start + 1) % len(h.buf)
}

// Readings returns a chronological copy of the window
func (h *History) Readings() []models.Reading {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]models.Reading, h.size)
	for i := 0; i < h.size; i++ {
		out[i] = h.buf[(h.start+i)%len(h.buf)]
	}
	return out
}

// Latest returns the most recent reading, if any
func (h *History) Latest() (models.Reading, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.size == 0 {
		return models.Reading{}, false
	}
	return h.buf[(h.start+h.size-1)%len(h.buf)], true
}

// Len returns the number of readings held
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.size
}

// Cap returns the window capacity
func (h *History) Cap() int {
	return len(h.buf)
}
