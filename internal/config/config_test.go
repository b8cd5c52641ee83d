package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8090", cfg.GetServerAddr())
	assert.Equal(t, "./data/uploads", cfg.Storage.UploadDir)
	assert.Equal(t, 30, cfg.Assistant.ChatTimeout)
	assert.Equal(t, 5, cfg.Assistant.StatusTimeout)
	assert.Nil(t, cfg.AllowedOrigins())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("BACKEND_URL", "http://assistant.internal:8000/")
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("TAVILY_API_KEY", "t-key")
	t.Setenv("UPLOAD_DIR", "/var/uploads")
	t.Setenv("CHAT_TIMEOUT_SECONDS", "45")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	// Trailing slash is trimmed so endpoint paths join cleanly.
	assert.Equal(t, "http://assistant.internal:8000", cfg.Assistant.BackendURL)
	assert.Equal(t, "g-key", cfg.Assistant.GoogleAPIKey)
	assert.Equal(t, "t-key", cfg.Assistant.TavilyAPIKey)
	assert.Equal(t, "/var/uploads", cfg.Storage.UploadDir)
	assert.Equal(t, 45, cfg.Assistant.ChatTimeout)
}

func TestLoad_MissingCredentialsDoNotFail(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("TAVILY_API_KEY", "")
	t.Setenv("BACKEND_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Assistant.GoogleAPIKey)
	assert.Empty(t, cfg.Assistant.BackendURL)
}

func TestLoad_YAMLOverlayWithEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 7000
  allowOrigins: "http://localhost:3000"
storage:
  uploadDir: /srv/uploads
assistant:
  backendUrl: http://from-file:8000
  chatTimeoutSeconds: 10
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	t.Setenv("SHIPASSIST_CONFIG", path)
	t.Setenv("PORT", "7100") // env wins over file

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7100, cfg.Server.Port)
	assert.Equal(t, "/srv/uploads", cfg.Storage.UploadDir)
	assert.Equal(t, "http://from-file:8000", cfg.Assistant.BackendURL)
	assert.Equal(t, 10, cfg.Assistant.ChatTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins())
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "70000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
}

func TestAllowedOrigins_Parsing(t *testing.T) {
	cfg := &Config{}
	cfg.Server.AllowOrigins = " http://a.example , http://b.example ,"

	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.AllowedOrigins())
}

func TestDeadlines(t *testing.T) {
	a := AssistantConfig{ChatTimeout: 30, StatusTimeout: 5}
	assert.Equal(t, "30s", a.ChatDeadline().String())
	assert.Equal(t, "5s", a.StatusDeadline().String())
}
