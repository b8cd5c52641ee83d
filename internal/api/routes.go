// routes.go - Route registration helpers
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/shipassist/backend/internal/health"
	"github.com/shipassist/backend/internal/metrics"
	"github.com/shipassist/backend/internal/storage"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store      storage.Store
	Assistant  AssistantService
	Aggregator *health.Aggregator
	Metrics    *metrics.Metrics
}

// Handlers holds all handler instances
type Handlers struct {
	Upload    UploadHandler
	Assistant AssistantHandler
	Health    HealthHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	var recorder UploadRecorder
	if deps.Metrics != nil {
		recorder = deps.Metrics
	}
	return &Handlers{
		Upload:    NewUploadHandler(deps.Store, recorder),
		Assistant: NewAssistantHandler(deps.Assistant),
		Health:    NewHealthHandler(deps.Aggregator),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers, m *metrics.Metrics) {
	e.HTTPErrorHandler = ErrorHandler

	apiGroup := e.Group("/api")
	apiGroup.GET("/health", handlers.Health.HandleHealth)
	apiGroup.POST("/upload", handlers.Upload.HandleUpload)
	apiGroup.POST("/ai", handlers.Assistant.HandleAssistant)
	apiGroup.POST("/ai-proxy", handlers.Assistant.HandleProxy)
	apiGroup.GET("/ai-proxy", handlers.Assistant.HandleProxy)
	apiGroup.DELETE("/ai-proxy", handlers.Assistant.HandleProxy)

	if m != nil {
		e.GET("/metrics", m.Handler())
	}
}
