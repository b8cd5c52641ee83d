// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/shipassist/backend/internal/assistant"
	"github.com/shipassist/backend/internal/models"
)

// UploadHandler handles document upload operations.
type UploadHandler interface {
	HandleUpload(c echo.Context) error
}

// AssistantHandler handles the AI assistant routes.
type AssistantHandler interface {
	HandleAssistant(c echo.Context) error
	HandleProxy(c echo.Context) error
}

// HealthHandler handles health check operations.
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// AssistantService defines the outbound assistant client surface.
// This allows mocking in tests.
type AssistantService interface {
	Do(ctx context.Context, method, endpoint string, body []byte) (*assistant.Result, error)
	Status(ctx context.Context) (*models.UpstreamStatus, error)
	IsConfigured() bool
	HasCredentials() (google bool, tavily bool)
}

// UploadRecorder counts upload outcomes for metrics. May be nil-implemented
// in tests.
type UploadRecorder interface {
	RecordUpload(outcome string)
}
