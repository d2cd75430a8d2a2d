package teth

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/teth-sec/teth/attribution"
	"github.com/teth-sec/teth/config"
	"github.com/teth-sec/teth/detect"
	"github.com/teth-sec/teth/eval"
	"github.com/teth-sec/teth/optimize"
	"github.com/teth-sec/teth/predict"
	"github.com/teth-sec/teth/registry"
	"github.com/teth-sec/teth/taxonomy"
)

// Engine is the top-level facade over the attribution core: it owns the
// loaded registries and exposes the analysis, optimization, and
// validation operations as one surface.
//
// Example:
//
//	engine, err := teth.New(
//	    teth.WithToolsFile("catalog/tools.yaml"),
//	    teth.WithActorsFile("catalog/actors.yaml"),
//	    teth.WithLogger(logger),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	analysis, err := engine.Analyze(ctx, events)
type Engine struct {
	tools  *registry.ToolRegistry
	actors *registry.ActorRegistry

	attributor *attribution.Engine
	detector   *detect.Detector
	predictor  *predict.Predictor
	optimizer  *optimize.Optimizer
	validator  *eval.Runner

	logger *slog.Logger
}

// Analysis is the combined result of running one event window through
// the detector, the attribution engine, and the predictor.
type Analysis struct {
	// Phase is the detected campaign phase for the window.
	Phase taxonomy.Phase `json:"phase"`

	// Attribution ranks the known actors against the window's chain.
	Attribution attribution.Result `json:"attribution"`

	// Predictions lists likely next tools, empty when attribution
	// confidence is too low or the campaign is already terminal.
	Predictions []predict.Prediction `json:"predictions,omitempty"`
}

// New creates an engine from the provided options. Registries come
// either from WithRegistries or from the WithToolsFile/WithActorsFile
// paths; one of the two forms is required.
func New(opts ...EngineOption) (*Engine, error) {
	cfg := &engineConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.configPath != "" {
		fileCfg, err := config.Load(cfg.configPath)
		if err != nil {
			return nil, NewConfigurationError("New", err)
		}
		if cfg.toolsPath == "" {
			cfg.toolsPath = fileCfg.Registries.Tools
		}
		if cfg.actorsPath == "" {
			cfg.actorsPath = fileCfg.Registries.Actors
		}
		if cfg.windowSize == 0 && fileCfg.Detector != nil {
			cfg.windowSize = fileCfg.Detector.GetWindowSize()
		}
		if cfg.minScore == 0 && fileCfg.Attribution != nil {
			cfg.minScore = fileCfg.Attribution.GetMinScore()
		}
		if cfg.seed == 0 && fileCfg.Validation != nil {
			cfg.seed = fileCfg.Validation.GetSeed()
		}
	}
	if cfg.seed == 0 {
		cfg.seed = 1
	}

	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	tools := cfg.tools
	if tools == nil {
		if cfg.toolsPath == "" {
			return nil, NewConfigurationError("New", ErrNoRegistry)
		}
		var err error
		tools, err = registry.LoadToolsFile(cfg.toolsPath)
		if err != nil {
			return nil, NewConfigurationError("New", err)
		}
	}

	actors := cfg.actors
	if actors == nil {
		if cfg.actorsPath == "" {
			return nil, NewConfigurationError("New", ErrNoRegistry)
		}
		var err error
		actors, err = registry.LoadActorsFile(cfg.actorsPath, tools)
		if err != nil {
			return nil, NewConfigurationError("New", err)
		}
	}

	var detectOpts []detect.Option
	if cfg.windowSize > 0 {
		detectOpts = append(detectOpts, detect.WithWindowSize(cfg.windowSize))
	}

	attrOpts := []attribution.Option{attribution.WithLogger(cfg.logger)}
	if cfg.tracer != nil {
		attrOpts = append(attrOpts, attribution.WithTracer(cfg.tracer))
	}
	if cfg.minScore > 0 {
		attrOpts = append(attrOpts, attribution.WithMinScore(cfg.minScore))
	}

	optOpts := []optimize.Option{optimize.WithLogger(cfg.logger)}
	if cfg.tracer != nil {
		optOpts = append(optOpts, optimize.WithTracer(cfg.tracer))
	}

	evalOpts := []eval.Option{eval.WithSeed(cfg.seed), eval.WithLogger(cfg.logger)}
	if cfg.tracer != nil {
		evalOpts = append(evalOpts, eval.WithTracer(cfg.tracer))
	}
	if cfg.meter != nil {
		evalOpts = append(evalOpts, eval.WithMeter(cfg.meter))
	}
	validator, err := eval.New(tools, actors, evalOpts...)
	if err != nil {
		return nil, NewConfigurationError("New", err)
	}

	return &Engine{
		tools:      tools,
		actors:     actors,
		attributor: attribution.New(tools, actors, attrOpts...),
		detector:   detect.NewDetector(tools, detectOpts...),
		predictor:  predict.New(tools, actors),
		optimizer:  optimize.New(tools, optOpts...),
		validator:  validator,
		logger:     cfg.logger,
	}, nil
}

// Tools returns the loaded tool registry.
func (e *Engine) Tools() *registry.ToolRegistry { return e.tools }

// Actors returns the loaded actor registry.
func (e *Engine) Actors() *registry.ActorRegistry { return e.actors }

// Attribute ranks the known actors against the given tool chain.
func (e *Engine) Attribute(ctx context.Context, chain []string) (attribution.Result, error) {
	res, err := e.attributor.Attribute(ctx, chain)
	if err != nil {
		return attribution.Result{}, NewNotFoundError("Engine.Attribute", err)
	}
	return res, nil
}

// DetectPhase classifies the campaign phase of an event window.
func (e *Engine) DetectPhase(events []detect.Event) taxonomy.Phase {
	return e.detector.Detect(events)
}

// PredictNext forecasts likely next tools from an attribution result
// and the current phase.
func (e *Engine) PredictNext(res attribution.Result, current taxonomy.Phase) []predict.Prediction {
	return e.predictor.Next(res, current)
}

// Analyze runs the full pipeline over one event window: phase detection
// and attribution execute concurrently, and their outputs feed the
// next-action predictor.
func (e *Engine) Analyze(ctx context.Context, events []detect.Event) (Analysis, error) {
	chain := make([]string, len(events))
	for i, ev := range events {
		chain[i] = ev.ToolID
	}

	var analysis Analysis
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		analysis.Phase = e.detector.Detect(events)
		return nil
	})
	g.Go(func() error {
		res, err := e.attributor.Attribute(gctx, chain)
		if err != nil {
			return err
		}
		analysis.Attribution = res
		return nil
	})
	if err := g.Wait(); err != nil {
		return Analysis{}, NewNotFoundError("Engine.Analyze", err)
	}

	analysis.Predictions = e.predictor.Next(analysis.Attribution, analysis.Phase)
	return analysis, nil
}

// Optimize builds an ordered tool chain for the objective under the
// given constraints. A nil constraint set means fully permissive.
func (e *Engine) Optimize(ctx context.Context, objective optimize.Objective, cons *optimize.Constraints, available []string) (optimize.Chain, error) {
	chain, err := e.optimizer.Optimize(ctx, objective, cons, available)
	if err != nil {
		return optimize.Chain{}, wrapOptimizeError(err)
	}
	return chain, nil
}

// Validate runs the statistical self-consistency suite with the
// configured seed.
func (e *Engine) Validate(ctx context.Context, numSimulations int) (map[string]eval.ValidationResult, error) {
	results, err := e.validator.Validate(ctx, numSimulations)
	if err != nil {
		return nil, NewInternalError("Engine.Validate", err)
	}
	return results, nil
}

// wrapOptimizeError maps optimizer failures onto the engine's error
// kinds without losing the underlying typed error.
func wrapOptimizeError(err error) error {
	var unsat *optimize.UnsatisfiableError
	if errors.As(err, &unsat) {
		return NewUnsatisfiableError("Engine.Optimize", err).
			WithContext(map[string]any{"constraint": unsat.Constraint})
	}
	var canceled *optimize.CanceledError
	if errors.As(err, &canceled) {
		return NewCanceledError("Engine.Optimize", err)
	}
	return NewValidationError("Engine.Optimize", err)
}
