// Package observability builds the logger, tracer and metrics registry.
package observability

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	scoremetrics "github.com/Black-And-White-Club/score-bot/app/observability/metrics/score"
	"github.com/Black-And-White-Club/score-bot/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Observability bundles the ambient telemetry handed to modules.
type Observability struct {
	Logger       *slog.Logger
	Tracer       trace.Tracer
	Registry     *prometheus.Registry
	ScoreMetrics scoremetrics.ScoreMetrics
}

// New builds the logger (JSON in production, text otherwise), a tracer from
// the global provider, and a registry carrying the Go runtime, process and
// scoring collectors.
func New(cfg config.ObservabilityConfig) (*Observability, error) {
	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler).With(
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := scoremetrics.NewPrometheus(registry, cfg.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to register score metrics: %w", err)
	}

	return &Observability{
		Logger:       logger,
		Tracer:       otel.Tracer(cfg.ServiceName),
		Registry:     registry,
		ScoreMetrics: metrics,
	}, nil
}

// ParseLevel maps debug, info, warn and error onto slog levels. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
