package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStation_IsOnline(t *testing.T) {
	now := time.Now()
	at := func(d time.Duration) *time.Time { ts := now.Add(-d); return &ts }

	tests := []struct {
		name     string
		station  *Station
		expected bool
	}{
		{
			name:     "online - ticked one interval ago",
			station:  &Station{ID: uuid.New(), LastTickAt: at(2 * time.Second), Interval: 2 * time.Second},
			expected: true,
		},
		{
			name:     "online - just under three intervals",
			station:  &Station{ID: uuid.New(), LastTickAt: at(5900 * time.Millisecond), Interval: 2 * time.Second},
			expected: true,
		},
		{
			name:     "offline - three intervals ago",
			station:  &Station{ID: uuid.New(), LastTickAt: at(6 * time.Second), Interval: 2 * time.Second},
			expected: false,
		},
		{
			name:     "offline - never ticked",
			station:  &Station{ID: uuid.New(), Interval: 2 * time.Second},
			expected: false,
		},
		{
			name:     "offline - no interval configured",
			station:  &Station{ID: uuid.New(), LastTickAt: at(0)},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.station.IsOnline(now))
		})
	}
}

func TestStation_ToResponse(t *testing.T) {
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	last := started.Add(10 * time.Second)
	s := &Station{
		ID:         uuid.New(),
		Name:       "EcoSense Station",
		StartedAt:  started,
		LastTickAt: &last,
		TickCount:  5,
		Interval:   2 * time.Second,
	}

	resp := s.ToResponse(last.Add(time.Second))

	assert.Equal(t, s.ID.String(), resp.ID)
	assert.Equal(t, "EcoSense Station", resp.Name)
	assert.Equal(t, "2026-01-02T03:04:05Z", resp.StartedAt)
	require.NotNil(t, resp.LastTickAt)
	assert.Equal(t, "2026-01-02T03:04:15Z", *resp.LastTickAt)
	assert.Equal(t, uint64(5), resp.TickCount)
	assert.Equal(t, "2s", resp.Interval)
	assert.True(t, resp.IsOnline)
}

func TestStation_ToResponseNeverTicked(t *testing.T) {
	s := &Station{ID: uuid.New(), StartedAt: time.Now(), Interval: time.Second}

	resp := s.ToResponse(time.Now())

	assert.Nil(t, resp.LastTickAt)
	assert.False(t, resp.IsOnline)
}
