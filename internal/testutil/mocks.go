// Package testutil provides mock implementations for handler tests.
package testutil

import (
	"context"
	"io"

	"github.com/shipassist/backend/internal/assistant"
	"github.com/shipassist/backend/internal/models"
)

// MockStore is an in-memory storage.Store for tests.
type MockStore struct {
	SaveErr  error
	ProbeErr error
	Saved    []*models.FileInfo
}

// NewMockStore creates an empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{}
}

// Save records the file metadata without touching disk.
func (m *MockStore) Save(name string, contentType string, r io.Reader) (*models.FileInfo, error) {
	if m.SaveErr != nil {
		return nil, m.SaveErr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	info := &models.FileInfo{
		ID:          "mock-id",
		Name:        name,
		Path:        "/mock/uploads/" + name,
		Size:        int64(len(data)),
		ContentType: contentType,
	}
	m.Saved = append(m.Saved, info)
	return info, nil
}

// Probe returns the configured probe error.
func (m *MockStore) Probe() error {
	return m.ProbeErr
}

// MockAssistant is a scriptable api.AssistantService for tests.
type MockAssistant struct {
	DoFunc     func(ctx context.Context, method, endpoint string, body []byte) (*assistant.Result, error)
	StatusFunc func(ctx context.Context) (*models.UpstreamStatus, error)
	Configured bool
	Google     bool
	Tavily     bool
}

// Do delegates to DoFunc.
func (m *MockAssistant) Do(ctx context.Context, method, endpoint string, body []byte) (*assistant.Result, error) {
	return m.DoFunc(ctx, method, endpoint, body)
}

// Status delegates to StatusFunc.
func (m *MockAssistant) Status(ctx context.Context) (*models.UpstreamStatus, error) {
	if m.StatusFunc == nil {
		return nil, assistant.ErrNotConfigured
	}
	return m.StatusFunc(ctx)
}

// IsConfigured reports the configured flag.
func (m *MockAssistant) IsConfigured() bool {
	return m.Configured
}

// HasCredentials reports the configured credential flags.
func (m *MockAssistant) HasCredentials() (bool, bool) {
	return m.Google, m.Tavily
}
