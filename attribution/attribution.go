package attribution

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/teth-sec/teth/registry"
)

// exclusivityBonus is added once per chain tool exclusively owned by the
// candidate. Exclusivity is a much stronger signal than shared preference,
// hence the size relative to typical preference weights.
const exclusivityBonus = 5.0

// entropyScoreWeight scales the entropy-distribution closeness term.
const entropyScoreWeight = 2.0

// scoreEpsilon is the float tolerance under which two candidate scores are
// considered tied.
const scoreEpsilon = 1e-9

// Candidate is one actor's scored standing for a chain, kept in the result
// for auditability.
type Candidate struct {
	// ActorID identifies the profile.
	ActorID string `json:"actor_id"`

	// Score is the length-normalized raw score.
	Score float64 `json:"score"`

	// Confidence is the candidate's share of the total score across all
	// candidates, 0 when nothing scored.
	Confidence float64 `json:"confidence"`

	// PreferenceHits counts chain tools found in the actor's toolkit.
	PreferenceHits int `json:"preference_hits"`

	// ExclusiveHits counts chain tools exclusively owned by the actor.
	ExclusiveHits int `json:"exclusive_hits"`
}

// Result is the outcome of attributing one chain.
type Result struct {
	// ActorID is the best-matching profile, or empty when no profile
	// cleared the minimum score.
	ActorID string `json:"actor_id,omitempty"`

	// Confidence is the winner's normalized confidence, 0 for no match.
	Confidence float64 `json:"confidence"`

	// Candidates holds every profile's scored standing, ranked.
	Candidates []Candidate `json:"candidates"`

	// ChainEntropyMean is the chain's mean composite entropy, exposed for
	// audit output.
	ChainEntropyMean float64 `json:"chain_entropy_mean"`

	// ChainEntropyStddev is the population standard deviation of the
	// chain's per-tool entropy, 0 for chains of one tool.
	ChainEntropyStddev float64 `json:"chain_entropy_stddev"`
}

// Attributed reports whether any profile cleared the minimum score.
func (r Result) Attributed() bool {
	return r.ActorID != ""
}

// Engine attributes chains against one pair of registries.
type Engine struct {
	tools    *registry.ToolRegistry
	actors   *registry.ActorRegistry
	minScore float64
	logger   *slog.Logger
	tracer   trace.Tracer
}

// Option configures an Engine.
type Option func(*Engine)

// WithMinScore sets the normalized score a winning candidate must exceed
// for the result to name an actor. The default is zero: any positive
// score attributes.
func WithMinScore(min float64) Option {
	return func(e *Engine) { e.minScore = min }
}

// WithLogger sets a structured logger. Attribution logs at debug level
// only; the default discards nothing but goes to the process default.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTracer enables span creation around each attribution.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) { e.tracer = tracer }
}

// New creates an attribution engine over the given registries.
func New(tools *registry.ToolRegistry, actors *registry.ActorRegistry, opts ...Option) *Engine {
	e := &Engine{
		tools:  tools,
		actors: actors,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Attribute scores every known actor against the ordered chain of tool
// identifiers and returns the ranked result. Every identifier must resolve
// in the tool registry. An empty chain yields an unattributed result.
func (e *Engine) Attribute(ctx context.Context, chain []string) (Result, error) {
	if e.tracer != nil {
		var span trace.Span
		ctx, span = e.tracer.Start(ctx, "attribution.attribute")
		span.SetAttributes(attribute.Int("chain.length", len(chain)))
		defer span.End()
	}

	if len(chain) == 0 {
		return Result{}, nil
	}

	signatures := make([]*registry.ToolSignature, len(chain))
	var entropySum float64
	for i, id := range chain {
		tool, ok := e.tools.Lookup(id)
		if !ok {
			return Result{}, fmt.Errorf("attribution: chain tool %q not in registry", id)
		}
		signatures[i] = tool
		score, _ := tool.Entropy()
		entropySum += score
	}
	chainMean := entropySum / float64(len(chain))
	var chainVar float64
	for _, tool := range signatures {
		score, _ := tool.Entropy()
		d := score - chainMean
		chainVar += d * d
	}
	chainStddev := math.Sqrt(chainVar / float64(len(chain)))

	candidates := make([]Candidate, 0, e.actors.Len())
	var total float64
	for _, actor := range e.actors.Actors() {
		c := e.scoreActor(actor, signatures, chainMean)
		total += c.Score
		candidates = append(candidates, c)
	}

	sortCandidates(candidates)

	result := Result{
		Candidates:         candidates,
		ChainEntropyMean:   chainMean,
		ChainEntropyStddev: chainStddev,
	}
	if total > 0 {
		for i := range candidates {
			candidates[i].Confidence = candidates[i].Score / total
		}
		best := candidates[0]
		if best.Score > e.minScore {
			result.ActorID = best.ActorID
			result.Confidence = best.Confidence
		}
	}

	e.logger.Debug("chain attributed",
		"chain_length", len(chain),
		"actor", result.ActorID,
		"confidence", result.Confidence,
	)
	return result, nil
}

// scoreActor computes one candidate's length-normalized score.
func (e *Engine) scoreActor(actor *registry.ActorProfile, chain []*registry.ToolSignature, chainMean float64) Candidate {
	c := Candidate{ActorID: actor.ID}

	var raw float64
	for _, tool := range chain {
		if weight, ok := actor.PreferenceWeight(tool.ID); ok {
			raw += weight
			c.PreferenceHits++
		}
		if tool.ExclusiveTo == actor.ID {
			raw += exclusivityBonus
			c.ExclusiveHits++
		}
	}

	entropyScore := math.Max(0, 1-math.Abs(chainMean-actor.EntropyMean)/actor.EntropyStddev)
	raw += entropyScoreWeight * entropyScore

	// Length normalization keeps long chains from winning on volume alone.
	c.Score = raw / float64(len(chain))
	return c
}

// sortCandidates ranks by score descending, breaking float ties by
// exclusive matches and then identifier so results are reproducible.
func sortCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if math.Abs(a.Score-b.Score) > scoreEpsilon {
			return a.Score > b.Score
		}
		if a.ExclusiveHits != b.ExclusiveHits {
			return a.ExclusiveHits > b.ExclusiveHits
		}
		return a.ActorID < b.ActorID
	})
}
