package models

import "time"

// Subsystem status strings used in the composite health document.
const (
	StorageOK    = "ok"
	StorageError = "error"

	UpstreamUnknown   = "unknown"
	UpstreamHealthy   = "healthy"
	UpstreamUnhealthy = "unhealthy"
)

// APIKeyStatus reports credential validity plus the names of any missing
// credentials.
type APIKeyStatus struct {
	Valid   bool     `json:"valid"`
	Missing []string `json:"missing"`
}

// EnvironmentStatus reports which configuration values are present, for
// diagnostic display in the status widget.
type EnvironmentStatus struct {
	BackendURLConfigured bool `json:"backendUrlConfigured"`
	GoogleKeyConfigured  bool `json:"googleKeyConfigured"`
	TavilyKeyConfigured  bool `json:"tavilyKeyConfigured"`
}

// HealthStatus is the composite health document returned by /api/health.
// It is recomputed from scratch on every request.
type HealthStatus struct {
	Status      string            `json:"status"`
	Storage     string            `json:"storage"`
	AIService   string            `json:"aiService"`
	APIKeys     APIKeyStatus      `json:"apiKeys"`
	Environment EnvironmentStatus `json:"environment"`
	Timestamp   time.Time         `json:"timestamp"`
}

// UpstreamStatus mirrors the assistant service's /status response body.
// KBLoaded implies the generative-AI key is usable upstream;
// WebSearchEnabled implies the search key is usable upstream.
type UpstreamStatus struct {
	Status           string `json:"status"`
	KBLoaded         bool   `json:"kb_loaded"`
	WebSearchEnabled bool   `json:"web_search_enabled"`
	Message          string `json:"message,omitempty"`
}
