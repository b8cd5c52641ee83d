// handlers_health.go - Health check handler
package api

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shipassist/backend/internal/health"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	aggregator *health.Aggregator
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(aggregator *health.Aggregator) HealthHandler {
	return &HealthHandlerImpl{aggregator: aggregator}
}

// HandleHealth returns the composite health document. The individual checks
// classify rather than fail, so this responds 200 unless something genuinely
// unexpected escapes the aggregator.
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("health check panicked", "panic", r)
			err = NewInternalError("System health check failed", nil)
		}
	}()

	doc := h.aggregator.Check(c.Request().Context())
	return c.JSON(http.StatusOK, doc)
}
