// errors.go - Structured error handling for API responses
package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIError represents a structured API error response. The wire envelope is
// {"error": "..."} — the shape the front end's chat and upload components
// consume.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus reports the response status for middleware that inspects
// errors before the error handler writes them.
func (e *APIError) HTTPStatus() int {
	return e.Status
}

// Error constructors for consistent error handling

// NewBadRequestError creates a 400 Bad Request error.
func NewBadRequestError(message string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Message: message,
	}
}

// NewInternalError creates a 500 Internal Server Error. The cause is logged,
// never sent to the client.
func NewInternalError(message string, cause error) *APIError {
	if cause != nil {
		slog.Error("internal error", "message", message, "error", cause)
	}
	return &APIError{
		Status:  http.StatusInternalServerError,
		Message: message,
	}
}

// NewServiceUnavailableError creates a 503 Service Unavailable error.
func NewServiceUnavailableError(message string) *APIError {
	return &APIError{
		Status:  http.StatusServiceUnavailable,
		Message: message,
	}
}

// NewUpstreamError creates an error mirroring an upstream status code and
// message.
func NewUpstreamError(status int, message string) *APIError {
	return &APIError{
		Status:  status,
		Message: message,
	}
}

// ErrorHandler is the custom echo.HTTPErrorHandler.
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError

	switch e := err.(type) {
	case *APIError:
		apiErr = e
	case *echo.HTTPError:
		apiErr = &APIError{
			Status:  e.Code,
			Message: fmt.Sprintf("%v", e.Message),
		}
	default:
		slog.Error("unhandled error", "error", err)
		apiErr = &APIError{
			Status:  http.StatusInternalServerError,
			Message: "An unexpected error occurred",
		}
	}

	if err := c.JSON(apiErr.Status, apiErr); err != nil {
		slog.Error("failed to write error response", "error", err)
	}
}
