// Package assistant implements the HTTP client for the externally hosted
// assistant service. It owns endpoint selection, credential header
// injection, per-call deadlines, and normalization of upstream error bodies
// into typed errors. It performs no retries: every failure is reported
// upward immediately.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shipassist/backend/internal/config"
	"github.com/shipassist/backend/internal/models"
)

// Named upstream endpoints accepted by the proxy surface.
const (
	EndpointChat         = "chat"
	EndpointTroubleshoot = "troubleshoot"
	EndpointSearch       = "search"
	EndpointReset        = "reset"
	EndpointStatus       = "status"
	EndpointLoadKB       = "load_kb"
	EndpointDeleteKB     = "delete_kb"
)

// endpointPaths maps endpoint names to upstream URL paths.
var endpointPaths = map[string]string{
	EndpointChat:         "/chat",
	EndpointTroubleshoot: "/troubleshoot",
	EndpointSearch:       "/search",
	EndpointReset:        "/reset",
	EndpointStatus:       "/status",
	EndpointLoadKB:       "/load_kb",
	EndpointDeleteKB:     "/delete_kb",
}

// maxRawPrefix caps the raw-body diagnostics included in parse errors.
const maxRawPrefix = 500

// Result is a normalized upstream response: the mirrored status code and
// the decoded JSON body.
type Result struct {
	StatusCode int
	Body       map[string]interface{}
}

// Observer is notified after every upstream call, for metrics.
type Observer interface {
	ObserveUpstreamCall(endpoint, outcome string, duration time.Duration)
}

// Client is the HTTP client for the assistant service. It is safe for
// concurrent use; all state is read-only after construction.
type Client struct {
	baseURL       string
	googleKey     string
	tavilyKey     string
	chatTimeout   time.Duration
	statusTimeout time.Duration
	httpClient    *http.Client
	observer      Observer
}

// NewClient creates a client from the assistant configuration.
func NewClient(cfg config.AssistantConfig) *Client {
	return &Client{
		baseURL:       cfg.BackendURL,
		googleKey:     cfg.GoogleAPIKey,
		tavilyKey:     cfg.TavilyAPIKey,
		chatTimeout:   cfg.ChatDeadline(),
		statusTimeout: cfg.StatusDeadline(),
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:      10,
				IdleConnTimeout:   90 * time.Second,
				ForceAttemptHTTP2: true,
			},
		},
	}
}

// SetObserver registers a metrics observer. Must be called before the
// client is shared across goroutines.
func (c *Client) SetObserver(o Observer) {
	c.observer = o
}

// IsConfigured reports whether a backend URL is set.
func (c *Client) IsConfigured() bool {
	return c.baseURL != ""
}

// HasCredentials reports which required credentials are configured locally.
func (c *Client) HasCredentials() (google bool, tavily bool) {
	return c.googleKey != "", c.tavilyKey != ""
}

// ValidEndpoint reports whether name is a known upstream endpoint.
func ValidEndpoint(name string) bool {
	_, ok := endpointPaths[name]
	return ok
}

// Do forwards a JSON body to the named upstream endpoint and normalizes the
// response. The deadline is 5 seconds for status checks and 30 seconds for
// generative operations (both configurable). Cancellation is local to this
// call.
func (c *Client) Do(ctx context.Context, method, endpoint string, body []byte) (*Result, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	path, ok := endpointPaths[endpoint]
	if !ok {
		return nil, fmt.Errorf("unknown endpoint: %s", endpoint)
	}

	timeout := c.chatTimeout
	if endpoint == EndpointStatus {
		timeout = c.statusTimeout
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(callCtx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setCredentialHeaders(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			c.observe(endpoint, "timeout", start)
			return nil, &TimeoutError{Endpoint: endpoint, Timeout: timeout}
		}
		c.observe(endpoint, "connection_error", start)
		return nil, &ConnectionError{Endpoint: endpoint, Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(endpoint, "read_error", start)
		return nil, &ConnectionError{Endpoint: endpoint, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.observe(endpoint, "upstream_error", start)
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    extractErrorMessage(raw, resp.StatusCode),
		}
	}

	// A JSON "null" unmarshals into a nil map without error; treat it the
	// same as an unparseable body so callers always get a usable object.
	var parsed map[string]interface{}
	if len(bytes.TrimSpace(raw)) == 0 || json.Unmarshal(raw, &parsed) != nil || parsed == nil {
		c.observe(endpoint, "parse_error", start)
		return nil, &ParseError{
			StatusCode: resp.StatusCode,
			RawPrefix:  truncate(string(raw), maxRawPrefix),
			Cause:      fmt.Errorf("body is not a JSON object"),
		}
	}

	c.observe(endpoint, "success", start)
	return &Result{StatusCode: resp.StatusCode, Body: parsed}, nil
}

// Status fetches the assistant service's /status endpoint with the short
// deadline and cache-busting headers. Used by the health aggregator.
func (c *Client) Status(ctx context.Context) (*models.UpstreamStatus, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	callCtx, cancel := context.WithTimeout(ctx, c.statusTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, c.baseURL+"/status", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	c.setCredentialHeaders(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			c.observe(EndpointStatus, "timeout", start)
			return nil, &TimeoutError{Endpoint: EndpointStatus, Timeout: c.statusTimeout}
		}
		c.observe(EndpointStatus, "connection_error", start)
		return nil, &ConnectionError{Endpoint: EndpointStatus, Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(EndpointStatus, "read_error", start)
		return nil, &ConnectionError{Endpoint: EndpointStatus, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.observe(EndpointStatus, "upstream_error", start)
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    extractErrorMessage(raw, resp.StatusCode),
		}
	}

	var status models.UpstreamStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		c.observe(EndpointStatus, "parse_error", start)
		return nil, &ParseError{
			StatusCode: resp.StatusCode,
			RawPrefix:  truncate(string(raw), maxRawPrefix),
			Cause:      err,
		}
	}

	c.observe(EndpointStatus, "success", start)
	return &status, nil
}

// setCredentialHeaders attaches the third-party API credentials. These are
// sourced from server-side configuration and never exposed to the browser.
func (c *Client) setCredentialHeaders(req *http.Request) {
	if c.googleKey != "" {
		req.Header.Set("X-Google-API-Key", c.googleKey)
	}
	if c.tavilyKey != "" {
		req.Header.Set("X-Tavily-API-Key", c.tavilyKey)
	}
}

func (c *Client) observe(endpoint, outcome string, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveUpstreamCall(endpoint, outcome, time.Since(start))
	}
}

// extractErrorMessage pulls a human-readable message out of an upstream
// error body. FastAPI reports errors as {"detail": "..."}; a generic
// {"error": "..."} is accepted too. Non-JSON bodies fall back to the HTTP
// status text.
func extractErrorMessage(raw []byte, statusCode int) string {
	var body struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Detail != "" {
			return body.Detail
		}
		if body.Error != "" {
			return body.Error
		}
	}

	if text := http.StatusText(statusCode); text != "" {
		return text
	}
	return fmt.Sprintf("upstream returned status %d", statusCode)
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// LogUpstreamFailure logs an upstream failure with structured attributes.
// The detail stays in the logs; callers send only readable messages to the
// browser.
func LogUpstreamFailure(endpoint string, err error) {
	slog.Error("assistant service call failed",
		"endpoint", endpoint,
		"error", err,
	)
}
