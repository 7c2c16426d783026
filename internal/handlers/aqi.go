package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sebasr/ecosense-service/internal/aqi"
	"github.com/sebasr/ecosense-service/internal/models"
)

// ClassifyResponse is the body of GET /aqi/classify
type ClassifyResponse struct {
	AQI   int                   `json:"aqi"`
	Level models.PollutionLevel `json:"level"`
}

// AQILevels returns the breakpoint table
// GET /api/v1/aqi/levels
func AQILevels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"levels": aqi.Breakpoints(),
	})
}

// ClassifyAQI maps an AQI value to its level
// GET /api/v1/aqi/classify?aqi=N
func ClassifyAQI(c *gin.Context) {
	value, err := strconv.Atoi(c.Query("aqi"))
	if err != nil || value < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_aqi",
			"message": "aqi must be a non-negative integer",
		})
		return
	}

	c.JSON(http.StatusOK, ClassifyResponse{
		AQI:   value,
		Level: aqi.Classify(value),
	})
}
