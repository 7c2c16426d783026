package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebasr/ecosense-service/internal/advisory"
	"github.com/sebasr/ecosense-service/internal/forecast"
	"github.com/sebasr/ecosense-service/internal/middleware"
	"github.com/sebasr/ecosense-service/internal/models"
	"github.com/sebasr/ecosense-service/internal/simulation"
)

type fixedReading models.Reading

func (r fixedReading) Current() models.Reading { return models.Reading(r) }

// zeroNoise draws make the forecast noise term vanish
const zeroNoise = 1.0 / 3.0

func setupForecastTest(mock *advisory.MockService) (*gin.Engine, *forecast.Registry) {
	forecaster := forecast.NewForecaster(simulation.NewSequenceSource(zeroNoise), mock, time.Minute, nil)
	registry := forecast.NewRegistry(10)
	handler := NewForecastHandler(forecaster, registry, fixedReading{Timestamp: 1700000000000, AQI: 60, PM25: 17})

	router := gin.New()
	router.POST("/api/v1/forecasts", handler.Create)
	router.GET("/api/v1/forecasts/:id", handler.Get)
	router.GET("/api/v1/forecasts/:id/analysis", handler.Analysis)
	return router, registry
}

func postForecast(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/forecasts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestForecastHandler_Create(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantStatus   int
		wantActivity int
		wantAQI      int
		wantError    string
	}{
		{name: "explicit level", body: `{"activityLevel": 70}`, wantStatus: http.StatusAccepted, wantActivity: 70, wantAQI: 90},
		{name: "missing level is neutral", body: `{}`, wantStatus: http.StatusAccepted, wantActivity: 50, wantAQI: 60},
		{name: "empty body is neutral", body: ``, wantStatus: http.StatusAccepted, wantActivity: 50, wantAQI: 60},
		{name: "above range is clamped", body: `{"activityLevel": 250}`, wantStatus: http.StatusAccepted, wantActivity: 100, wantAQI: 135},
		{name: "below range is clamped", body: `{"activityLevel": -40}`, wantStatus: http.StatusAccepted, wantActivity: 0, wantAQI: 10},
		{name: "fractional is rejected", body: `{"activityLevel": 55.5}`, wantStatus: http.StatusBadRequest, wantError: "invalid_activity_level"},
		{name: "string is rejected", body: `{"activityLevel": "high"}`, wantStatus: http.StatusBadRequest, wantError: "invalid_request"},
		{name: "malformed json", body: `{"activityLevel":`, wantStatus: http.StatusBadRequest, wantError: "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, registry := setupForecastTest(advisory.NewMockService("Stay indoors."))

			w := postForecast(router, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantError != "" {
				var response map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Equal(t, tt.wantError, response["error"])
				assert.Equal(t, 0, registry.Len())
				return
			}

			var got models.ForecastResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.wantActivity, got.ActivityLevel)
			assert.Equal(t, tt.wantAQI, got.Prediction.PredictedAQI)
			assert.Equal(t, forecast.Confidence, got.Prediction.Confidence)
			assert.Equal(t, forecast.StagnationAdvisory, got.Prediction.Advisory)
			assert.Equal(t, 60, got.Reading.AQI)
			assert.Equal(t, "/api/v1/forecasts/"+got.ID, w.Header().Get("Location"))
			assert.Equal(t, 1, registry.Len())
		})
	}
}

func TestForecastHandler_CreateReturnsPendingAnalysis(t *testing.T) {
	mock := advisory.NewMockService("Stay indoors.")
	mock.Gate = make(chan struct{})
	defer close(mock.Gate)
	router, _ := setupForecastTest(mock)

	w := postForecast(router, `{"activityLevel": 80}`)

	require.Equal(t, http.StatusAccepted, w.Code)
	var got models.ForecastResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, models.AnalysisPending, got.Analysis.Status)
	assert.Empty(t, got.Analysis.Text)
	assert.Equal(t, "Unhealthy for Sensitive Groups", levelName(t, w.Body.Bytes()))
}

func levelName(t *testing.T, body []byte) string {
	t.Helper()
	var raw struct {
		Prediction struct {
			Level string `json:"level"`
		} `json:"prediction"`
	}
	require.NoError(t, json.Unmarshal(body, &raw))
	return raw.Prediction.Level
}

func TestForecastHandler_GetAndAnalysis(t *testing.T) {
	mock := advisory.NewMockService("Expect haze by evening.")
	mock.Gate = make(chan struct{})
	router, _ := setupForecastTest(mock)

	created := postForecast(router, `{"activityLevel": 50}`)
	require.Equal(t, http.StatusAccepted, created.Code)
	var f models.ForecastResponse
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &f))

	// pending without waiting
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/forecasts/"+f.ID+"/analysis", nil))
	assert.Equal(t, http.StatusAccepted, w.Code)

	// pending after a short wait
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/forecasts/"+f.ID+"/analysis?wait=20ms", nil))
	assert.Equal(t, http.StatusAccepted, w.Code)

	close(mock.Gate)

	// resolved once the advisory arrives
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/forecasts/"+f.ID+"/analysis?wait=5s", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	var analysis AnalysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analysis))
	assert.Equal(t, f.ID, analysis.ID)
	assert.Equal(t, models.AnalysisResolved, analysis.Analysis.Status)
	assert.Equal(t, "Expect haze by evening.", analysis.Analysis.Text)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/forecasts/"+f.ID, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	var got models.ForecastResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, f.Prediction, got.Prediction, "numeric result never changes")
	assert.Equal(t, "Expect haze by evening.", got.Analysis.Text)
}

func TestForecastHandler_LookupErrors(t *testing.T) {
	router, _ := setupForecastTest(advisory.NewMockService("ok"))

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantError  string
	}{
		{name: "malformed id", path: "/api/v1/forecasts/not-a-uuid", wantStatus: http.StatusBadRequest, wantError: "invalid_forecast_id"},
		{name: "unknown id", path: "/api/v1/forecasts/" + uuid.New().String(), wantStatus: http.StatusNotFound, wantError: "forecast_not_found"},
		{name: "unknown analysis", path: "/api/v1/forecasts/" + uuid.New().String() + "/analysis", wantStatus: http.StatusNotFound, wantError: "forecast_not_found"},
		{name: "bad wait", path: "/api/v1/forecasts/" + uuid.New().String() + "/analysis?wait=soon", wantStatus: http.StatusBadRequest, wantError: "invalid_wait"},
		{name: "negative wait", path: "/api/v1/forecasts/" + uuid.New().String() + "/analysis?wait=-1s", wantStatus: http.StatusBadRequest, wantError: "invalid_wait"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.wantError, response["error"])
		})
	}
}

func TestParseWait(t *testing.T) {
	d, err := parseWait("")
	require.NoError(t, err)
	assert.Zero(t, d)

	d, err = parseWait("2m")
	require.NoError(t, err)
	assert.Equal(t, MaxAnalysisWait, d)

	d, err = parseWait("250ms")
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)
}

func TestForecastHandler_CreateWithUnsizedEmptyBody(t *testing.T) {
	router, _ := setupForecastTest(advisory.NewMockService("ok"))

	// Unknown length, as with chunked or decompressed bodies
	req := httptest.NewRequest(http.MethodPost, "/api/v1/forecasts", io.NopCloser(strings.NewReader("")))
	req.Header.Set("Content-Type", "application/json")
	require.EqualValues(t, -1, req.ContentLength)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)
	var got models.ForecastResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, forecast.NeutralActivity, got.ActivityLevel)
}

func TestForecastHandler_RecordsOperator(t *testing.T) {
	forecaster := forecast.NewForecaster(simulation.NewSequenceSource(zeroNoise), advisory.NewMockService("ok"), time.Minute, nil)
	registry := forecast.NewRegistry(10)
	handler := NewForecastHandler(forecaster, registry, fixedReading{AQI: 60})

	router := gin.New()
	router.POST("/api/v1/forecasts", func(c *gin.Context) {
		c.Set(string(middleware.OperatorKey), "night-shift")
	}, handler.Create)
	router.GET("/api/v1/forecasts/:id", handler.Get)

	w := postForecast(router, `{"activityLevel": 60}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	var created models.ForecastResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "night-shift", created.RequestedBy)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/forecasts/"+created.ID, nil))
	var fetched models.ForecastResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, "night-shift", fetched.RequestedBy)

	// anonymous when no operator is attached
	anon, _ := setupForecastTest(advisory.NewMockService("ok"))
	w = postForecast(anon, `{}`)
	assert.NotContains(t, w.Body.String(), "requestedBy")
}
