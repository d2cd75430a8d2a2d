package eval

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/teth-sec/teth/attribution"
	"github.com/teth-sec/teth/detect"
	"github.com/teth-sec/teth/entropy"
	"github.com/teth-sec/teth/optimize"
	"github.com/teth-sec/teth/registry"
	"github.com/teth-sec/teth/taxonomy"
)

// Metric names returned by Validate.
const (
	MetricAttributionAccuracy  = "attribution_accuracy"
	MetricEntropyStability     = "entropy_stability"
	MetricPhaseAccuracy        = "phase_accuracy"
	MetricOptimizerImprovement = "optimizer_improvement"
)

// ValidationResult is one aggregated metric from a validation run.
type ValidationResult struct {
	// Value is the metric itself: a proportion for the accuracy metrics,
	// a standard deviation for entropy stability, and for optimizer
	// improvement the mean percent reduction in transition cost versus a
	// random ordering of the same tools.
	Value float64 `json:"value"`

	// Interval is the 95% confidence interval for the accuracy and
	// improvement metrics, and the observed score bounds for entropy
	// stability.
	Interval Interval `json:"confidence_interval"`

	// SampleSize is the number of trials that contributed to this metric.
	SampleSize int `json:"sample_size"`
}

// Runner drives simulation trials against a fixed pair of registries.
type Runner struct {
	tools  *registry.ToolRegistry
	actors *registry.ActorRegistry

	seed        uint64
	parallelism int
	logger      *slog.Logger
	tracer      trace.Tracer
	metrics     *otelMetrics
}

// Option configures a Runner.
type Option func(*Runner) error

// WithSeed fixes the master seed. Two runs with the same seed and trial
// count produce identical results.
func WithSeed(seed uint64) Option {
	return func(r *Runner) error {
		r.seed = seed
		return nil
	}
}

// WithParallelism caps how many trials run concurrently. Values below
// one fall back to the number of CPUs.
func WithParallelism(n int) Option {
	return func(r *Runner) error {
		if n > 0 {
			r.parallelism = n
		}
		return nil
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) error {
		if logger != nil {
			r.logger = logger
		}
		return nil
	}
}

// WithTracer enables a span around each validation run.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Runner) error {
		r.tracer = tracer
		return nil
	}
}

// WithMeter creates metric instruments on the given meter and records
// aggregated results to them after each run.
func WithMeter(meter metric.Meter) Option {
	return func(r *Runner) error {
		m, err := newOTelMetrics(meter)
		if err != nil {
			return err
		}
		r.metrics = m
		return nil
	}
}

// New builds a validation runner over the given registries.
func New(tools *registry.ToolRegistry, actors *registry.ActorRegistry, opts ...Option) (*Runner, error) {
	if tools == nil || tools.Len() == 0 {
		return nil, fmt.Errorf("eval: tool registry is empty")
	}
	if actors == nil || actors.Len() == 0 {
		return nil, fmt.Errorf("eval: actor registry is empty")
	}
	r := &Runner{
		tools:       tools,
		actors:      actors,
		seed:        1,
		parallelism: runtime.GOMAXPROCS(0),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// trialOutcome is one trial's raw observations. The ok flags mark
// observations the trial could actually make: a phase trial needs at
// least one tool in the drawn phase, and an improvement trial needs a
// nonzero baseline score to compare against.
type trialOutcome struct {
	attributionHit bool

	entropyScore float64

	phaseHit bool
	phaseOK  bool

	improvement   float64
	improvementOK bool
}

// Validate runs numSimulations independent trials and aggregates them
// into the four self-consistency metrics. Trials are distributed across
// the configured parallelism; each derives its generator from the master
// seed and its own index, so the result is reproducible regardless of
// scheduling.
func (r *Runner) Validate(ctx context.Context, numSimulations int) (map[string]ValidationResult, error) {
	if numSimulations <= 0 {
		return nil, fmt.Errorf("eval: numSimulations must be positive, got %d", numSimulations)
	}

	if r.tracer != nil {
		var span trace.Span
		ctx, span = r.tracer.Start(ctx, "eval.validate")
		defer span.End()
	}

	attributor := attribution.New(r.tools, r.actors)
	detector := detect.NewDetector(r.tools)
	optimizer := optimize.New(r.tools)
	actors := r.actors.Actors()

	outcomes := make([]trialOutcome, numSimulations)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)
	for i := 0; i < numSimulations; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(r.seed, uint64(i)))
			actor := actors[i%len(actors)]
			out, err := r.runTrial(gctx, rng, actor, attributor, detector, optimizer)
			if err != nil {
				return err
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := aggregate(outcomes)
	r.metrics.record(ctx, results, numSimulations)
	r.logger.Info("validation complete",
		"trials", numSimulations,
		"attribution_accuracy", results[MetricAttributionAccuracy].Value,
		"phase_accuracy", results[MetricPhaseAccuracy].Value,
	)
	return results, nil
}

// runTrial performs all four experiments with one seeded generator.
func (r *Runner) runTrial(ctx context.Context, rng *rand.Rand, actor *registry.ActorProfile, attributor *attribution.Engine, detector *detect.Detector, optimizer *optimize.Optimizer) (trialOutcome, error) {
	var out trialOutcome

	// (a) Attribute a chain synthesized from the actor's own preferences
	// and check the engine recovers the generator label.
	chain := synthesizeChain(rng, actor)
	if len(chain) > 0 {
		res, err := attributor.Attribute(ctx, chain)
		if err != nil {
			return out, fmt.Errorf("eval: attribution trial: %w", err)
		}
		out.attributionHit = res.ActorID == actor.ID
	}

	// (b) Score one random signature drawn uniformly from the declared
	// dimension ranges.
	out.entropyScore, _ = entropy.Score(randomDimensions(rng))

	// (c) Detect the phase of a synthetic window labeled with a known
	// phase.
	phase := taxonomy.Phases()[rng.IntN(len(taxonomy.Phases()))]
	if events := r.synthesizeWindow(rng, phase); len(events) > 0 {
		out.phaseOK = true
		out.phaseHit = detector.Detect(events) == phase
	}

	// (d) Compare a random visiting order against the optimizer's order
	// over the same tool subset. The comparison is on summed transition
	// cost, the quantity the solve minimizes; the set-based objective
	// score is identical for any ordering of the same tools.
	subset := r.sampleSubset(rng)
	baseCost, err := optimizer.ChainCost(optimize.ObjectiveBalanced, subset)
	if err != nil {
		return out, fmt.Errorf("eval: optimizer trial: %w", err)
	}
	if baseCost > 1e-9 {
		cons := optimize.NewConstraints().WithMinTier(taxonomy.TierElite)
		optimized, err := optimizer.Optimize(ctx, optimize.ObjectiveBalanced, cons, subset)
		if err != nil {
			return out, fmt.Errorf("eval: optimizer trial: %w", err)
		}
		optCost, err := optimizer.ChainCost(optimize.ObjectiveBalanced, optimized.Tools)
		if err != nil {
			return out, fmt.Errorf("eval: optimizer trial: %w", err)
		}
		out.improvement = (baseCost - optCost) / baseCost * 100
		out.improvementOK = true
	}

	return out, nil
}

// synthesizeChain draws 4 to 6 tools from the actor's preference list,
// biased by preference weight.
func synthesizeChain(rng *rand.Rand, actor *registry.ActorProfile) []string {
	prefs := actor.PreferredTools
	if len(prefs) == 0 {
		return nil
	}
	var total float64
	for _, p := range prefs {
		total += p.Weight
	}

	length := 4 + rng.IntN(3)
	chain := make([]string, 0, length)
	for k := 0; k < length; k++ {
		if total <= 0 {
			chain = append(chain, prefs[rng.IntN(len(prefs))].ToolID)
			continue
		}
		target := rng.Float64() * total
		pick := prefs[len(prefs)-1].ToolID
		for _, p := range prefs {
			target -= p.Weight
			if target <= 0 {
				pick = p.ToolID
				break
			}
		}
		chain = append(chain, pick)
	}
	return chain
}

// randomDimensions draws one signature uniformly from the declared
// dimension ranges.
func randomDimensions(rng *rand.Rand) entropy.Dimensions {
	return entropy.Dimensions{
		BranchingPaths:  1 + rng.IntN(1_000_000),
		CognitiveLoad:   1 + 9*rng.Float64(),
		Variability:     1 + 9*rng.Float64(),
		OperationalRisk: rng.Float64(),
		FeedbackClarity: rng.Float64(),
	}
}

// synthesizeWindow builds 3 to 5 events drawn from the tools of one
// phase. Returns nil when the registry has no tool in that phase.
func (r *Runner) synthesizeWindow(rng *rand.Rand, phase taxonomy.Phase) []detect.Event {
	var pool []*registry.ToolSignature
	for _, tool := range r.tools.Tools() {
		if tool.Phase == phase {
			pool = append(pool, tool)
		}
	}
	if len(pool) == 0 {
		return nil
	}

	base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	events := make([]detect.Event, 3+rng.IntN(3))
	for i := range events {
		events[i] = detect.Event{
			ToolID:    pool[rng.IntN(len(pool))].ID,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
	}
	return events
}

// sampleSubset picks 4 to 8 distinct tool identifiers (fewer when the
// registry is smaller) in random order.
func (r *Runner) sampleSubset(rng *rand.Rand) []string {
	ids := r.tools.IDs()
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	size := 4 + rng.IntN(5)
	if size > len(ids) {
		size = len(ids)
	}
	return ids[:size]
}

// aggregate folds the raw trial outcomes into named metrics.
func aggregate(outcomes []trialOutcome) map[string]ValidationResult {
	n := len(outcomes)

	attributionHits := 0
	scores := make([]float64, 0, n)
	phaseHits, phaseTrials := 0, 0
	improvements := make([]float64, 0, n)

	for _, out := range outcomes {
		if out.attributionHit {
			attributionHits++
		}
		scores = append(scores, out.entropyScore)
		if out.phaseOK {
			phaseTrials++
			if out.phaseHit {
				phaseHits++
			}
		}
		if out.improvementOK {
			improvements = append(improvements, out.improvement)
		}
	}

	_, scoreStddev := meanStddev(scores)
	improvementMean, improvementStddev := meanStddev(improvements)
	improvementMargin := 0.0
	if len(improvements) > 0 {
		improvementMargin = z95 * improvementStddev / sqrtN(len(improvements))
	}

	return map[string]ValidationResult{
		MetricAttributionAccuracy: {
			Value:      ratio(attributionHits, n),
			Interval:   wilson(attributionHits, n),
			SampleSize: n,
		},
		MetricEntropyStability: {
			Value:      scoreStddev,
			Interval:   bounds(scores),
			SampleSize: n,
		},
		MetricPhaseAccuracy: {
			Value:      ratio(phaseHits, phaseTrials),
			Interval:   wilson(phaseHits, phaseTrials),
			SampleSize: phaseTrials,
		},
		MetricOptimizerImprovement: {
			Value: improvementMean,
			Interval: Interval{
				Low:  improvementMean - improvementMargin,
				High: improvementMean + improvementMargin,
			},
			SampleSize: len(improvements),
		},
	}
}

func ratio(hits, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(hits) / float64(n)
}

func sqrtN(n int) float64 {
	return math.Sqrt(float64(n))
}
