package models

import (
	"time"

	"github.com/google/uuid"
)

// Station describes the simulated monitoring station behind the feed
type Station struct {
	ID         uuid.UUID     `json:"id"`
	Name       string        `json:"name"`
	StartedAt  time.Time     `json:"startedAt"`
	LastTickAt *time.Time    `json:"lastTickAt,omitempty"`
	TickCount  uint64        `json:"tickCount"`
	Interval   time.Duration `json:"-"`
}

// IsOnline reports whether the station has ticked recently.
// A station is online while its last tick is younger than three intervals.
func (s *Station) IsOnline(now time.Time) bool {
	if s.LastTickAt == nil || s.Interval <= 0 {
		return false
	}
	return now.Sub(*s.LastTickAt) < 3*s.Interval
}

// StationResponse represents a station for API responses
type StationResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	StartedAt  string  `json:"startedAt"`
	LastTickAt *string `json:"lastTickAt,omitempty"`
	TickCount  uint64  `json:"tickCount"`
	Interval   string  `json:"interval"`
	IsOnline   bool    `json:"isOnline"`
}

// ToResponse converts a Station to a StationResponse
func (s *Station) ToResponse(now time.Time) *StationResponse {
	var lastTick *string
	if s.LastTickAt != nil {
		ts := s.LastTickAt.UTC().Format(time.RFC3339)
		lastTick = &ts
	}
	return &StationResponse{
		ID:         s.ID.String(),
		Name:       s.Name,
		StartedAt:  s.StartedAt.UTC().Format(time.RFC3339),
		LastTickAt: lastTick,
		TickCount:  s.TickCount,
		Interval:   s.Interval.String(),
		IsOnline:   s.IsOnline(now),
	}
}
