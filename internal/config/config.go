// Package config provides application configuration. Values come from
// environment variables, with an optional YAML overlay file for deployments
// that prefer file-based settings. The resulting Config is constructed once
// at process start and passed explicitly to each component; there is no
// package-level mutable state.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration. All fields are read-only
// after Load returns.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Assistant AssistantConfig `yaml:"assistant"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int    `yaml:"port"`
	BindAddress  string `yaml:"bindAddress"`
	BodyLimit    string `yaml:"bodyLimit"`
	AllowOrigins string `yaml:"allowOrigins"` // comma-separated, empty disables CORS
	ReadTimeout  int    `yaml:"readTimeoutSeconds"`
	WriteTimeout int    `yaml:"writeTimeoutSeconds"`
	IdleTimeout  int    `yaml:"idleTimeoutSeconds"`
}

// StorageConfig contains upload storage settings.
type StorageConfig struct {
	UploadDir string `yaml:"uploadDir"`
}

// AssistantConfig contains settings for the upstream assistant service and
// the third-party credentials forwarded to it.
type AssistantConfig struct {
	BackendURL   string `yaml:"backendUrl"`
	GoogleAPIKey string `yaml:"-"` // secrets come from the environment only
	TavilyAPIKey string `yaml:"-"`

	// Outbound call deadlines, in seconds.
	ChatTimeout   int `yaml:"chatTimeoutSeconds"`
	StatusTimeout int `yaml:"statusTimeoutSeconds"`
}

// ChatDeadline returns the deadline applied to generative calls
// (chat, troubleshoot, search, reset).
func (a AssistantConfig) ChatDeadline() time.Duration {
	return time.Duration(a.ChatTimeout) * time.Second
}

// StatusDeadline returns the deadline applied to status and health probes.
func (a AssistantConfig) StatusDeadline() time.Duration {
	return time.Duration(a.StatusTimeout) * time.Second
}

// Load reads configuration from environment variables. If SHIPASSIST_CONFIG
// points at a YAML file, its values are applied first and the environment
// overrides them.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         8090,
			BindAddress:  "0.0.0.0",
			BodyLimit:    "25M",
			ReadTimeout:  60,
			WriteTimeout: 60,
			IdleTimeout:  120,
		},
		Storage: StorageConfig{
			UploadDir: "./data/uploads",
		},
		Assistant: AssistantConfig{
			ChatTimeout:   30,
			StatusTimeout: 5,
		},
	}

	if path := os.Getenv("SHIPASSIST_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnvInt("PORT", c.Server.Port)
	c.Server.BindAddress = getEnv("BIND_ADDRESS", c.Server.BindAddress)
	c.Server.BodyLimit = getEnv("BODY_LIMIT", c.Server.BodyLimit)
	c.Server.AllowOrigins = getEnv("ALLOW_ORIGINS", c.Server.AllowOrigins)

	c.Storage.UploadDir = getEnv("UPLOAD_DIR", c.Storage.UploadDir)

	c.Assistant.BackendURL = strings.TrimRight(getEnv("BACKEND_URL", c.Assistant.BackendURL), "/")
	c.Assistant.GoogleAPIKey = getEnv("GOOGLE_API_KEY", c.Assistant.GoogleAPIKey)
	c.Assistant.TavilyAPIKey = getEnv("TAVILY_API_KEY", c.Assistant.TavilyAPIKey)
	c.Assistant.ChatTimeout = getEnvInt("CHAT_TIMEOUT_SECONDS", c.Assistant.ChatTimeout)
	c.Assistant.StatusTimeout = getEnvInt("STATUS_TIMEOUT_SECONDS", c.Assistant.StatusTimeout)
}

// Validate checks structural settings. A missing BACKEND_URL or credential
// degrades functionality at request time but must not prevent startup.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Storage.UploadDir == "" {
		return fmt.Errorf("UPLOAD_DIR cannot be empty")
	}
	if c.Assistant.ChatTimeout <= 0 {
		return fmt.Errorf("CHAT_TIMEOUT_SECONDS must be > 0")
	}
	if c.Assistant.StatusTimeout <= 0 {
		return fmt.Errorf("STATUS_TIMEOUT_SECONDS must be > 0")
	}
	return nil
}

// GetServerAddr returns the listen address in host:port form.
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// AllowedOrigins returns the parsed CORS origin list, or nil when CORS is
// disabled.
func (c *Config) AllowedOrigins() []string {
	if c.Server.AllowOrigins == "" {
		return nil
	}
	parts := strings.Split(c.Server.AllowOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
