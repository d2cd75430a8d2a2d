package optimize

import (
	"fmt"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/teth-sec/teth/registry"
	"github.com/teth-sec/teth/taxonomy"
)

// Constraints bounds what the optimizer may build. Construct with
// NewConstraints and the With* methods; the zero builder is fully
// permissive except for the operator tier, which defaults to elite
// (every tool allowed).
//
// Example:
//
//	cons := optimize.NewConstraints().
//	    WithMaxTools(6).
//	    WithRequiredPhases(taxonomy.PhaseDetect, taxonomy.PhaseDominate).
//	    WithForbiddenTools("wiper-blossom").
//	    WithFilter(`risk < 0.6 && phase != "hunt"`)
type Constraints struct {
	maxTotalEntropy float64
	maxTools        int
	requiredPhases  []taxonomy.Phase
	forbiddenTools  map[string]struct{}
	minTier         taxonomy.Tier
	timeLimit       time.Duration
	minStealth      float64
	filterExpr      string
}

// NewConstraints creates a permissive constraint set.
func NewConstraints() *Constraints {
	return &Constraints{
		maxTotalEntropy: -1,
		maxTools:        -1,
		forbiddenTools:  make(map[string]struct{}),
		minTier:         taxonomy.TierElite,
	}
}

// WithMaxTotalEntropy caps the chain's summed composite entropy.
// Negative values mean unlimited.
func (c *Constraints) WithMaxTotalEntropy(max float64) *Constraints {
	c.maxTotalEntropy = max
	return c
}

// WithMaxTools caps the chain length. Zero is a legal value and means no
// tools at all; negative means unlimited.
func (c *Constraints) WithMaxTools(max int) *Constraints {
	c.maxTools = max
	return c
}

// WithRequiredPhases requires every listed phase to appear in the result.
func (c *Constraints) WithRequiredPhases(phases ...taxonomy.Phase) *Constraints {
	c.requiredPhases = append(c.requiredPhases, phases...)
	return c
}

// WithForbiddenTools excludes the listed tools from consideration.
func (c *Constraints) WithForbiddenTools(ids ...string) *Constraints {
	for _, id := range ids {
		c.forbiddenTools[id] = struct{}{}
	}
	return c
}

// WithMinTier sets the operator tier the chain is built for. Tools whose
// minimum tier exceeds it are excluded, and the chain's success
// probability is estimated against that tier's canonical persona.
func (c *Constraints) WithMinTier(tier taxonomy.Tier) *Constraints {
	if tier.IsValid() {
		c.minTier = tier
	}
	return c
}

// WithTimeLimit bounds the optimization wall time. Applied as a context
// deadline; exceeding it yields a CanceledError, not a partial chain.
func (c *Constraints) WithTimeLimit(limit time.Duration) *Constraints {
	c.timeLimit = limit
	return c
}

// WithMinStealth requires the finished chain's stealth score (one minus
// mean operational risk) to reach the given floor.
func (c *Constraints) WithMinStealth(min float64) *Constraints {
	c.minStealth = min
	return c
}

// WithFilter sets a CEL predicate evaluated per candidate tool before the
// cost matrix is built. The expression sees the variables id, category,
// phase, min_tier (strings), techniques (list of string), and entropy,
// risk (doubles), and must evaluate to a boolean.
func (c *Constraints) WithFilter(expr string) *Constraints {
	c.filterExpr = expr
	return c
}

// celEnv declares the candidate-tool variables visible to filter
// expressions.
func celEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("id", cel.StringType),
		cel.Variable("category", cel.StringType),
		cel.Variable("phase", cel.StringType),
		cel.Variable("min_tier", cel.StringType),
		cel.Variable("techniques", cel.ListType(cel.StringType)),
		cel.Variable("entropy", cel.DoubleType),
		cel.Variable("risk", cel.DoubleType),
	)
}

// compileFilter compiles the constraint's CEL expression, if any, into a
// per-tool predicate.
func (c *Constraints) compileFilter() (func(*registry.ToolSignature) (bool, error), error) {
	if c.filterExpr == "" {
		return nil, nil
	}

	env, err := celEnv()
	if err != nil {
		return nil, fmt.Errorf("optimize: build filter environment: %w", err)
	}

	ast, iss := env.Compile(c.filterExpr)
	if iss.Err() != nil {
		return nil, fmt.Errorf("optimize: compile filter: %w", iss.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("optimize: filter must evaluate to bool, got %s", ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("optimize: build filter program: %w", err)
	}

	return func(tool *registry.ToolSignature) (bool, error) {
		score, _ := tool.Entropy()
		techniques := make([]string, len(tool.Techniques))
		copy(techniques, tool.Techniques)

		out, _, err := prg.Eval(map[string]any{
			"id":         tool.ID,
			"category":   tool.Category.String(),
			"phase":      tool.Phase.String(),
			"min_tier":   tool.MinTier.String(),
			"techniques": techniques,
			"entropy":    score,
			"risk":       tool.Dimensions.OperationalRisk,
		})
		if err != nil {
			return false, fmt.Errorf("optimize: evaluate filter for %q: %w", tool.ID, err)
		}
		keep, ok := out.Value().(bool)
		if !ok {
			return false, fmt.Errorf("optimize: filter returned non-bool for %q", tool.ID)
		}
		return keep, nil
	}, nil
}
