package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	for _, source := range []string{"live", "fallback"} {
		t.Run(source, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)

			NewHealthHandler(source)(c)

			assert.Equal(t, http.StatusOK, w.Code)
			var got HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, "healthy", got.Status)
			assert.Equal(t, Version, got.Version)
			assert.Equal(t, source, got.Advisory)
			_, err := time.Parse(time.RFC3339, got.Timestamp)
			assert.NoError(t, err)
		})
	}
}
