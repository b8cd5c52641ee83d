// Package metrics exposes Prometheus metrics for the HTTP surface and the
// outbound assistant service calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/labstack/echo/v4"
)

// Metrics holds all Prometheus collectors registered by the server.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	uploadsTotal *prometheus.CounterVec

	upstreamCallsTotal   *prometheus.CounterVec
	upstreamCallDuration *prometheus.HistogramVec
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shipassist",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shipassist",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		}, []string{"route"}),
		uploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shipassist",
			Name:      "uploads_total",
			Help:      "Total upload attempts by outcome.",
		}, []string{"outcome"}),
		upstreamCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shipassist",
			Name:      "upstream_calls_total",
			Help:      "Total assistant service calls by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		upstreamCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "shipassist",
			Name:      "upstream_call_duration_seconds",
			Help:      "Assistant service call latency by endpoint.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
		}, []string{"endpoint"}),
	}

	registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.uploadsTotal,
		m.upstreamCallsTotal,
		m.upstreamCallDuration,
	)

	return m
}

// Handler returns the /metrics endpoint handler.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Middleware records request counts and latency per route.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}
			m.requestsTotal.WithLabelValues(route, statusLabel(c, err)).Inc()
			m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// RecordUpload counts an upload attempt. Outcome is one of "accepted",
// "rejected", "error".
func (m *Metrics) RecordUpload(outcome string) {
	m.uploadsTotal.WithLabelValues(outcome).Inc()
}

// ObserveUpstreamCall implements assistant.Observer.
func (m *Metrics) ObserveUpstreamCall(endpoint, outcome string, duration time.Duration) {
	m.upstreamCallsTotal.WithLabelValues(endpoint, outcome).Inc()
	m.upstreamCallDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func statusLabel(c echo.Context, err error) string {
	status := c.Response().Status
	if err != nil && !c.Response().Committed {
		switch e := err.(type) {
		case *echo.HTTPError:
			status = e.Code
		case interface{ HTTPStatus() int }:
			status = e.HTTPStatus()
		}
	}
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
