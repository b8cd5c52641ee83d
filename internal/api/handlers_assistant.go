// handlers_assistant.go - AI assistant proxy handlers
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shipassist/backend/internal/assistant"
	"github.com/shipassist/backend/internal/models"
)

// FallbackResponse is the synthetic assistant reply used when the upstream
// reply lacks its primary content field. Returning this instead of an error
// keeps the chat widget from rendering a broken bubble.
const FallbackResponse = "I received your message but could not generate a proper response. Please try again."

// AssistantHandlerImpl implements the AssistantHandler interface
type AssistantHandlerImpl struct {
	client AssistantService
}

// NewAssistantHandler creates a new assistant handler instance
func NewAssistantHandler(client AssistantService) AssistantHandler {
	return &AssistantHandlerImpl{client: client}
}

// HandleAssistant serves POST /api/ai. The upstream endpoint is inferred
// from the body's action field: "reset" clears the conversation, "search"
// runs a web search, anything else goes to the troubleshooting chat. The
// troubleshooting state rides along verbatim; its transitions are owned by
// the assistant service.
func (h *AssistantHandlerImpl) HandleAssistant(c echo.Context) error {
	var req models.AssistantRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("Invalid JSON body")
	}

	var (
		endpoint string
		payload  interface{}
	)

	switch req.Action {
	case "reset":
		endpoint = assistant.EndpointReset
	case "search":
		endpoint = assistant.EndpointSearch
		query := req.Query
		if query == "" {
			query = req.Message
		}
		payload = map[string]string{"query": query}
	default:
		endpoint = assistant.EndpointTroubleshoot
		payload = map[string]interface{}{
			"message":               req.Message,
			"history":               req.History,
			"troubleshooting_state": req.TroubleshootingState,
		}
	}

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return NewInternalError("Failed to encode request", err)
		}
	}

	result, err := h.client.Do(c.Request().Context(), http.MethodPost, endpoint, body)
	if err != nil {
		assistant.LogUpstreamFailure(endpoint, err)
		return translateAssistantError(err)
	}

	// Soft fail: a troubleshooting reply without its primary field degrades
	// to a synthetic answer rather than an error.
	if endpoint == assistant.EndpointTroubleshoot {
		if _, ok := result.Body["response"]; !ok {
			if _, ok := result.Body["answer"]; !ok {
				result.Body["response"] = FallbackResponse
				result.Body["solved"] = false
			}
		}
	}

	return c.JSON(result.StatusCode, result.Body)
}

// HandleProxy serves POST/GET/DELETE /api/ai-proxy. The upstream endpoint
// comes from the endpoint query parameter and is checked against the known
// set; the method and JSON body pass through unchanged.
func (h *AssistantHandlerImpl) HandleProxy(c echo.Context) error {
	endpoint := c.QueryParam("endpoint")
	if endpoint == "" {
		return NewBadRequestError("Missing endpoint parameter")
	}
	if !assistant.ValidEndpoint(endpoint) {
		return NewBadRequestError("Unknown endpoint: " + endpoint)
	}

	var body []byte
	if c.Request().Method == http.MethodPost {
		var err error
		body, err = io.ReadAll(c.Request().Body)
		if err != nil {
			return NewBadRequestError("Failed to read request body")
		}
	}

	result, err := h.client.Do(c.Request().Context(), c.Request().Method, endpoint, body)
	if err != nil {
		assistant.LogUpstreamFailure(endpoint, err)
		return translateAssistantError(err)
	}

	return c.JSON(result.StatusCode, result.Body)
}

// translateAssistantError maps client errors to the outgoing envelope.
// Timeouts are distinguished from connection failures, upstream statuses
// are mirrored, and contract violations become a 500 with truncated raw
// diagnostics.
func translateAssistantError(err error) *APIError {
	var (
		timeoutErr  *assistant.TimeoutError
		connErr     *assistant.ConnectionError
		upstreamErr *assistant.UpstreamError
		parseErr    *assistant.ParseError
	)

	switch {
	case errors.Is(err, assistant.ErrNotConfigured):
		return NewServiceUnavailableError("AI assistant service is not configured")
	case errors.As(err, &timeoutErr):
		return NewServiceUnavailableError("Request to the AI assistant timed out. Please try again.")
	case errors.As(err, &connErr):
		return NewServiceUnavailableError("Could not connect to the AI assistant service. Please try again later.")
	case errors.As(err, &upstreamErr):
		return NewUpstreamError(upstreamErr.StatusCode, upstreamErr.Message)
	case errors.As(err, &parseErr):
		return &APIError{
			Status:  http.StatusInternalServerError,
			Message: "Empty or unparseable response from the AI backend",
			Details: parseErr.RawPrefix,
		}
	default:
		return NewInternalError("An unexpected error occurred", err)
	}
}
