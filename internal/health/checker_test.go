package health

import (
	"context"
	"errors"
	"testing"

	"github.com/shipassist/backend/internal/assistant"
	"github.com/shipassist/backend/internal/models"
	"github.com/shipassist/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAggregator_UpstreamUnreachableWithLocalKeys(t *testing.T) {
	store := testutil.NewMockStore()
	client := &testutil.MockAssistant{
		Configured: true,
		Google:     true,
		Tavily:     true,
		StatusFunc: func(_ context.Context) (*models.UpstreamStatus, error) {
			return nil, &assistant.ConnectionError{Endpoint: "status", Cause: errors.New("connection refused")}
		},
	}

	doc := NewAggregator(store, client).Check(context.Background())

	assert.Equal(t, models.UpstreamUnhealthy, doc.AIService)
	assert.True(t, doc.APIKeys.Valid)
	assert.Empty(t, doc.APIKeys.Missing)
	assert.Equal(t, models.StorageOK, doc.Storage)
	assert.Equal(t, "degraded", doc.Status)
}

func TestAggregator_UpstreamConfirmsMissingLocalKeys(t *testing.T) {
	store := testutil.NewMockStore()
	client := &testutil.MockAssistant{
		Configured: true,
		Google:     false,
		Tavily:     false,
		StatusFunc: func(_ context.Context) (*models.UpstreamStatus, error) {
			// Upstream affirms both credentials are usable; it overrides the
			// local "missing" finding.
			return &models.UpstreamStatus{
				Status:           "Ready",
				KBLoaded:         true,
				WebSearchEnabled: true,
			}, nil
		},
	}

	doc := NewAggregator(store, client).Check(context.Background())

	assert.Equal(t, models.UpstreamHealthy, doc.AIService)
	assert.True(t, doc.APIKeys.Valid)
	assert.Empty(t, doc.APIKeys.Missing)
	assert.False(t, doc.Environment.GoogleKeyConfigured)
	assert.False(t, doc.Environment.TavilyKeyConfigured)
}

func TestAggregator_PartialUpstreamConfirmation(t *testing.T) {
	store := testutil.NewMockStore()
	client := &testutil.MockAssistant{
		Configured: true,
		Google:     true,
		Tavily:     false,
		StatusFunc: func(_ context.Context) (*models.UpstreamStatus, error) {
			return &models.UpstreamStatus{Status: "Ready", KBLoaded: true, WebSearchEnabled: false}, nil
		},
	}

	doc := NewAggregator(store, client).Check(context.Background())

	assert.False(t, doc.APIKeys.Valid)
	assert.Equal(t, []string{CredentialTavily}, doc.APIKeys.Missing)
}

func TestAggregator_NoBackendConfigured(t *testing.T) {
	store := testutil.NewMockStore()
	client := &testutil.MockAssistant{
		Configured: false,
		Google:     true,
		Tavily:     true,
	}

	doc := NewAggregator(store, client).Check(context.Background())

	assert.Equal(t, models.UpstreamUnknown, doc.AIService)
	assert.False(t, doc.Environment.BackendURLConfigured)
	// Local credential check is the fallback when upstream never answers.
	assert.True(t, doc.APIKeys.Valid)
}

func TestAggregator_StorageFailureDegrades(t *testing.T) {
	store := testutil.NewMockStore()
	store.ProbeErr = errors.New("read-only file system")
	client := &testutil.MockAssistant{
		Configured: true,
		Google:     true,
		Tavily:     true,
		StatusFunc: func(_ context.Context) (*models.UpstreamStatus, error) {
			return &models.UpstreamStatus{Status: "Ready", KBLoaded: true, WebSearchEnabled: true}, nil
		},
	}

	doc := NewAggregator(store, client).Check(context.Background())

	assert.Equal(t, models.StorageError, doc.Storage)
	assert.Equal(t, "degraded", doc.Status)
	assert.Equal(t, models.UpstreamHealthy, doc.AIService)
}

func TestAggregator_Idempotent(t *testing.T) {
	store := testutil.NewMockStore()
	client := &testutil.MockAssistant{
		Configured: true,
		Google:     true,
		Tavily:     false,
		StatusFunc: func(_ context.Context) (*models.UpstreamStatus, error) {
			return nil, &assistant.TimeoutError{Endpoint: "status"}
		},
	}
	agg := NewAggregator(store, client)

	first := agg.Check(context.Background())
	second := agg.Check(context.Background())

	// No hidden caching: with no state change, both calls classify the same.
	assert.Equal(t, first.Storage, second.Storage)
	assert.Equal(t, first.AIService, second.AIService)
	assert.Equal(t, first.APIKeys, second.APIKeys)
	assert.Equal(t, first.Environment, second.Environment)
}

func TestAggregator_AllHealthy(t *testing.T) {
	store := testutil.NewMockStore()
	client := &testutil.MockAssistant{
		Configured: true,
		Google:     true,
		Tavily:     true,
		StatusFunc: func(_ context.Context) (*models.UpstreamStatus, error) {
			return &models.UpstreamStatus{Status: "Ready", KBLoaded: true, WebSearchEnabled: true}, nil
		},
	}

	doc := NewAggregator(store, client).Check(context.Background())

	assert.Equal(t, "ok", doc.Status)
	assert.Equal(t, models.StorageOK, doc.Storage)
	assert.Equal(t, models.UpstreamHealthy, doc.AIService)
	assert.True(t, doc.APIKeys.Valid)
	assert.True(t, doc.Environment.BackendURLConfigured)
}
