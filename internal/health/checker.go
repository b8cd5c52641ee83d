// Package health composes the three independent health checks — storage
// writability, assistant service reachability, credential presence — into
// one document for the front end's status widget. Every check classifies
// and never panics; any failure degrades the corresponding field and is
// logged. Nothing is cached between invocations.
package health

import (
	"context"
	"log/slog"
	"time"

	"github.com/shipassist/backend/internal/models"
)

// Credential names reported in the missing list.
const (
	CredentialGoogle = "GOOGLE_API_KEY"
	CredentialTavily = "TAVILY_API_KEY"
)

// Prober verifies local storage writability.
type Prober interface {
	Probe() error
}

// StatusSource fetches the assistant service's status and reports local
// configuration presence.
type StatusSource interface {
	Status(ctx context.Context) (*models.UpstreamStatus, error)
	IsConfigured() bool
	HasCredentials() (google bool, tavily bool)
}

// Aggregator recomputes the composite health document on every call.
type Aggregator struct {
	store  Prober
	client StatusSource
}

// NewAggregator creates a health aggregator over the given storage and
// assistant client.
func NewAggregator(store Prober, client StatusSource) *Aggregator {
	return &Aggregator{store: store, client: client}
}

// Check runs all three checks sequentially and assembles the document.
func (a *Aggregator) Check(ctx context.Context) models.HealthStatus {
	storage := a.checkStorage()
	aiService, upstream := a.checkUpstream(ctx)
	keys := a.checkCredentials(upstream)

	overall := "ok"
	if storage != models.StorageOK || aiService != models.UpstreamHealthy || !keys.Valid {
		overall = "degraded"
	}

	googleOK, tavilyOK := a.client.HasCredentials()
	return models.HealthStatus{
		Status:    overall,
		Storage:   storage,
		AIService: aiService,
		APIKeys:   keys,
		Environment: models.EnvironmentStatus{
			BackendURLConfigured: a.client.IsConfigured(),
			GoogleKeyConfigured:  googleOK,
			TavilyKeyConfigured:  tavilyOK,
		},
		Timestamp: time.Now().UTC(),
	}
}

// checkStorage classifies upload-directory writability. Failures degrade to
// "error" and are logged, never propagated.
func (a *Aggregator) checkStorage() string {
	if err := a.store.Probe(); err != nil {
		slog.Error("storage health check failed", "error", err)
		return models.StorageError
	}
	return models.StorageOK
}

// checkUpstream classifies assistant service reachability. The returned
// status body is nil unless the service answered successfully.
func (a *Aggregator) checkUpstream(ctx context.Context) (string, *models.UpstreamStatus) {
	if !a.client.IsConfigured() {
		return models.UpstreamUnknown, nil
	}

	status, err := a.client.Status(ctx)
	if err != nil {
		slog.Warn("assistant service health check failed", "error", err)
		return models.UpstreamUnhealthy, nil
	}
	return models.UpstreamHealthy, status
}

// checkCredentials reconciles local credential presence with the flags the
// assistant service reports. When the service answers, its affirmation is
// authoritative: kb_loaded confirms the generative key and
// web_search_enabled confirms the search key even if the local value is
// absent. The local check is the fallback when the service is unreachable.
func (a *Aggregator) checkCredentials(upstream *models.UpstreamStatus) models.APIKeyStatus {
	googleOK, tavilyOK := a.client.HasCredentials()

	if upstream != nil {
		if upstream.KBLoaded {
			googleOK = true
		}
		if upstream.WebSearchEnabled {
			tavilyOK = true
		}
	}

	missing := []string{}
	if !googleOK {
		missing = append(missing, CredentialGoogle)
	}
	if !tavilyOK {
		missing = append(missing, CredentialTavily)
	}

	return models.APIKeyStatus{
		Valid:   len(missing) == 0,
		Missing: missing,
	}
}
