package teth

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/teth-sec/teth/registry"
)

// EngineOption configures the Engine.
type EngineOption func(*engineConfig)

// engineConfig holds configuration for the Engine instance.
type engineConfig struct {
	configPath string
	toolsPath  string
	actorsPath string
	tools      *registry.ToolRegistry
	actors     *registry.ActorRegistry

	logger *slog.Logger
	tracer trace.Tracer
	meter  metric.Meter

	windowSize int
	minScore   float64
	seed       uint64
}

// WithConfigFile sets the engine.yaml file to load settings from.
// Explicit options take precedence over values from the file.
func WithConfigFile(path string) EngineOption {
	return func(c *engineConfig) {
		c.configPath = path
	}
}

// WithToolsFile sets the YAML file the tool registry is loaded from.
// Ignored when WithRegistries provides a registry directly.
func WithToolsFile(path string) EngineOption {
	return func(c *engineConfig) {
		c.toolsPath = path
	}
}

// WithActorsFile sets the YAML file the actor registry is loaded from.
// Ignored when WithRegistries provides a registry directly.
func WithActorsFile(path string) EngineOption {
	return func(c *engineConfig) {
		c.actorsPath = path
	}
}

// WithRegistries supplies already constructed registries, bypassing
// file loading entirely. Useful for tests and embedded catalogs.
func WithRegistries(tools *registry.ToolRegistry, actors *registry.ActorRegistry) EngineOption {
	return func(c *engineConfig) {
		c.tools = tools
		c.actors = actors
	}
}

// WithLogger sets a custom logger for the engine.
// If not provided, a default logger will be created.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer for distributed tracing.
// Spans cover attribution, optimization, and validation runs.
func WithTracer(tracer trace.Tracer) EngineOption {
	return func(c *engineConfig) {
		c.tracer = tracer
	}
}

// WithMeter sets an OpenTelemetry meter; the validator records its
// aggregated metrics to it.
func WithMeter(meter metric.Meter) EngineOption {
	return func(c *engineConfig) {
		c.meter = meter
	}
}

// WithWindowSize overrides the phase detector's sliding window length.
func WithWindowSize(n int) EngineOption {
	return func(c *engineConfig) {
		c.windowSize = n
	}
}

// WithMinScore sets the attribution score floor below which a chain is
// reported as unattributed.
func WithMinScore(score float64) EngineOption {
	return func(c *engineConfig) {
		c.minScore = score
	}
}

// WithSeed fixes the statistical validator's master seed.
func WithSeed(seed uint64) EngineOption {
	return func(c *engineConfig) {
		c.seed = seed
	}
}
