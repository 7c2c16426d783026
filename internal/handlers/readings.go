// Package handlers contains HTTP request handlers for the EcoSense service.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sebasr/ecosense-service/internal/models"
)

// ReadingSource returns the current simulated reading
type ReadingSource interface {
	Current() models.Reading
}

// HistorySource returns the rolling reading window
type HistorySource interface {
	Readings() []models.Reading
	Cap() int
}

// StationSource returns the status of the simulated station
type StationSource interface {
	Station() models.Station
}

// ReadingsHandler serves the live telemetry feed
type ReadingsHandler struct {
	current ReadingSource
	history HistorySource
	station StationSource
	now     func() time.Time
}

// NewReadingsHandler creates a new readings handler
func NewReadingsHandler(current ReadingSource, history HistorySource, station StationSource) *ReadingsHandler {
	return &ReadingsHandler{
		current: current,
		history: history,
		station: station,
		now:     time.Now,
	}
}

// HistoryResponse is the body of GET /readings/history
type HistoryResponse struct {
	Readings []models.Reading `json:"readings"`
	Count    int              `json:"count"`
	Capacity int              `json:"capacity"`
}

// Current returns the latest reading
// GET /api/v1/readings/current
func (h *ReadingsHandler) Current(c *gin.Context) {
	c.JSON(http.StatusOK, h.current.Current())
}

// History returns the reading window, oldest first
// GET /api/v1/readings/history
func (h *ReadingsHandler) History(c *gin.Context) {
	readings := h.history.Readings()
	c.JSON(http.StatusOK, HistoryResponse{
		Readings: readings,
		Count:    len(readings),
		Capacity: h.history.Cap(),
	})
}

// Station returns the simulated station status
// GET /api/v1/station
func (h *ReadingsHandler) Station(c *gin.Context) {
	station := h.station.Station()
	c.JSON(http.StatusOK, station.ToResponse(h.now()))
}
