package handlers

import (
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sebasr/ecosense-service/internal/forecast"
	"github.com/sebasr/ecosense-service/internal/middleware"
	"github.com/sebasr/ecosense-service/internal/models"
)

// MaxAnalysisWait bounds the long-poll of GET /forecasts/:id/analysis
const MaxAnalysisWait = 30 * time.Second

// ForecastHandler handles scenario forecast requests
type ForecastHandler struct {
	forecaster *forecast.Forecaster
	registry   *forecast.Registry
	readings   ReadingSource
}

// NewForecastHandler creates a new forecast handler
func NewForecastHandler(forecaster *forecast.Forecaster, registry *forecast.Registry, readings ReadingSource) *ForecastHandler {
	return &ForecastHandler{
		forecaster: forecaster,
		registry:   registry,
		readings:   readings,
	}
}

// CreateForecastRequest represents the forecast request body
type CreateForecastRequest struct {
	// ActivityLevel is the 0-100 local activity scenario. Missing means neutral.
	ActivityLevel *float64 `json:"activityLevel"`
}

// AnalysisResponse is the body of GET /forecasts/:id/analysis
type AnalysisResponse struct {
	ID       string          `json:"id"`
	Analysis models.Analysis `json:"analysis"`
}

// Create runs a forecast against the current reading
// POST /api/v1/forecasts
func (h *ForecastHandler) Create(c *gin.Context) {
	// An empty body is a neutral scenario
	var req CreateForecastRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "activityLevel must be an integer between 0 and 100",
			})
			return
		}
	}

	activity, ok := parseActivity(req.ActivityLevel)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_activity_level",
			"message": "activityLevel must be an integer",
		})
		return
	}

	f := h.forecaster.Forecast(c.Request.Context(), h.readings.Current(), activity)
	f.RequestedBy, _ = middleware.GetOperator(c)
	h.registry.Add(f)

	c.Header("Location", "/api/v1/forecasts/"+f.ID.String())
	c.JSON(http.StatusAccepted, f.ToResponse())
}

// Get returns a forecast with its current analysis state
// GET /api/v1/forecasts/:id
func (h *ForecastHandler) Get(c *gin.Context) {
	f, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, f.ToResponse())
}

// Analysis long-polls the advisory text of a forecast
// GET /api/v1/forecasts/:id/analysis?wait=5s
func (h *ForecastHandler) Analysis(c *gin.Context) {
	wait, err := parseWait(c.Query("wait"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_wait",
			"message": "wait must be a duration such as 5s",
		})
		return
	}

	f, ok := h.lookup(c)
	if !ok {
		return
	}

	if wait > 0 {
		ctx, cancel := context.WithTimeout(c.Request.Context(), wait)
		defer cancel()
		_, _ = f.Wait(ctx)
	}

	analysis := f.Analysis()
	status := http.StatusOK
	if analysis.Status == models.AnalysisPending {
		status = http.StatusAccepted
	}
	c.JSON(status, AnalysisResponse{ID: f.ID.String(), Analysis: analysis})
}

func (h *ForecastHandler) lookup(c *gin.Context) (*forecast.Forecast, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_forecast_id",
			"message": "Invalid forecast ID format",
		})
		return nil, false
	}

	f, err := h.registry.Get(id)
	if err != nil {
		if errors.Is(err, forecast.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "forecast_not_found",
				"message": "Forecast not found or expired",
			})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to retrieve forecast",
		})
		return nil, false
	}
	return f, true
}

// parseActivity rejects fractional values and clamps the rest to 0..100
func parseActivity(v *float64) (int, bool) {
	if v == nil {
		return forecast.NeutralActivity, true
	}
	if math.IsNaN(*v) || *v != math.Trunc(*v) {
		return 0, false
	}
	clamped := math.Max(forecast.MinActivity, math.Min(forecast.MaxActivity, *v))
	return int(clamped), true
}

func parseWait(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, errors.New("negative wait")
	}
	return min(d, MaxAnalysisWait), nil
}
