package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/shipassist/backend/internal/api"
	"github.com/shipassist/backend/internal/assistant"
	"github.com/shipassist/backend/internal/config"
	"github.com/shipassist/backend/internal/health"
	"github.com/shipassist/backend/internal/metrics"
	"github.com/shipassist/backend/internal/storage"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Missing backend URL or credentials degrade functionality but must not
	// prevent startup; the health endpoint reports them.
	if cfg.Assistant.BackendURL == "" {
		slog.Warn("BACKEND_URL not set; assistant routes will report the service as unavailable")
	}
	if cfg.Assistant.GoogleAPIKey == "" {
		slog.Warn("GOOGLE_API_KEY not set; generative features will be degraded")
	}
	if cfg.Assistant.TavilyAPIKey == "" {
		slog.Warn("TAVILY_API_KEY not set; web search will be degraded")
	}

	fileStore, err := storage.NewLocalStore(cfg.Storage.UploadDir)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	m := metrics.New()

	client := assistant.NewClient(cfg.Assistant)
	client.SetObserver(m)

	aggregator := health.NewAggregator(fileStore, client)

	handlers := api.NewHandlers(&api.Dependencies{
		Store:      fileStore,
		Assistant:  client,
		Aggregator: aggregator,
		Metrics:    m,
	})

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/api/health" || path == "/metrics"
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize:         1024 * 4,
		DisablePrintStack: false,
	}))

	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/metrics")
		},
	}))
	e.Use(m.Middleware())

	if origins := cfg.AllowedOrigins(); origins != nil {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	api.RegisterRoutes(e, handlers, m)

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	slog.Info("Starting server",
		"version", Version,
		"build_time", BuildTime,
		"addr", cfg.GetServerAddr(),
		"upload_dir", cfg.Storage.UploadDir,
		"backend_url", cfg.Assistant.BackendURL,
	)

	e.Logger.Fatal(e.StartServer(s))
}
