// handlers_health_test.go - Tests for the health handler
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shipassist/backend/internal/health"
	"github.com/shipassist/backend/internal/models"
	"github.com/shipassist/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_Document(t *testing.T) {
	store := testutil.NewMockStore()
	client := &testutil.MockAssistant{
		Configured: true,
		Google:     true,
		Tavily:     true,
		StatusFunc: func(_ context.Context) (*models.UpstreamStatus, error) {
			return &models.UpstreamStatus{Status: "Ready", KBLoaded: true, WebSearchEnabled: true}, nil
		},
	}
	handler := NewHealthHandler(health.NewAggregator(store, client))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.HandleHealth(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "ok", doc["status"])
	assert.Equal(t, "ok", doc["storage"])
	assert.Equal(t, "healthy", doc["aiService"])

	keys, ok := doc["apiKeys"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, keys["valid"])

	env, ok := doc["environment"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, env["backendUrlConfigured"])
}

// A degraded subsystem still yields 200; the document carries the detail.
func TestHealthHandler_DegradedStill200(t *testing.T) {
	store := testutil.NewMockStore()
	client := &testutil.MockAssistant{Configured: false}
	handler := NewHealthHandler(health.NewAggregator(store, client))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.HandleHealth(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"aiService":"unknown"`)
	assert.Contains(t, rec.Body.String(), "GOOGLE_API_KEY")
	assert.Contains(t, rec.Body.String(), "TAVILY_API_KEY")
}
