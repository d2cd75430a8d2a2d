package optimize

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/teth-sec/teth/persona"
	"github.com/teth-sec/teth/registry"
	"github.com/teth-sec/teth/taxonomy"
)

// forbiddenCost marks a transition the matching must never pick. The
// Hungarian solver needs finite arithmetic, so this stands in for the
// infinite diagonal.
const forbiddenCost = 1e12

// Chain is an optimized, ordered tool sequence.
type Chain struct {
	// Tools lists the tool identifiers in visiting order.
	Tools []string `json:"tools"`

	// TotalEntropy is the sum of each tool's composite entropy.
	TotalEntropy float64 `json:"total_entropy"`

	// SuccessProbability is the product of each step's compatibility for
	// the canonical persona at the constraint tier.
	SuccessProbability float64 `json:"success_probability"`

	// ObjectiveScore is the achieved score for the requested objective,
	// in [0, 1], higher is better.
	ObjectiveScore float64 `json:"objective_score"`
}

// Optimizer builds chains over one tool registry.
type Optimizer struct {
	tools  *registry.ToolRegistry
	logger *slog.Logger
	tracer trace.Tracer
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Optimizer) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracer enables span creation around each optimization.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *Optimizer) { o.tracer = tracer }
}

// New creates an optimizer over the given registry.
func New(tools *registry.ToolRegistry, opts ...Option) *Optimizer {
	o := &Optimizer{tools: tools, logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Optimize builds an ordered chain for the objective from the available
// tool identifiers (nil means the whole registry), subject to the
// constraints. It fails with an UnsatisfiableError when the constraints
// cannot be met and with a CanceledError when the caller's context (or
// the constraint time limit) fires before the solve; no partial chain
// accompanies either error.
func (o *Optimizer) Optimize(ctx context.Context, objective Objective, cons *Constraints, available []string) (Chain, error) {
	if !objective.IsValid() {
		return Chain{}, fmt.Errorf("optimize: invalid objective %q", objective)
	}
	if cons == nil {
		cons = NewConstraints()
	}

	if o.tracer != nil {
		var span trace.Span
		ctx, span = o.tracer.Start(ctx, "optimize.chain")
		span.SetAttributes(attribute.String("objective", objective.String()))
		defer span.End()
	}

	if cons.timeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cons.timeLimit)
		defer cancel()
	}

	if cons.maxTools == 0 {
		if len(cons.requiredPhases) > 0 {
			return Chain{}, &UnsatisfiableError{
				Constraint: "max_tools",
				Detail:     fmt.Sprintf("a chain of zero tools cannot cover required phase %q", cons.requiredPhases[0]),
			}
		}
		return Chain{}, nil
	}

	candidates, err := o.selectCandidates(cons, available)
	if err != nil {
		return Chain{}, err
	}
	if len(candidates) == 0 {
		if len(cons.requiredPhases) > 0 {
			return Chain{}, &UnsatisfiableError{
				Constraint: "required_phases",
				Detail:     "no candidate tools survive the constraint filters",
			}
		}
		return Chain{}, nil
	}

	order := []int{0}
	if n := len(candidates); n > 1 {
		cost := buildCostMatrix(objective, candidates)

		// The solve is the long-running part; honor cancellation between
		// matrix build and solve rather than returning a partial chain.
		if err := ctx.Err(); err != nil {
			return Chain{}, &CanceledError{Stage: "solve", Err: err}
		}

		assignment := solveAssignment(cost)
		order = unrollMatching(assignment, cost)
	}

	chain, err := o.finalize(objective, cons, candidates, order)
	if err != nil {
		return Chain{}, err
	}

	o.logger.Debug("chain optimized",
		"objective", objective.String(),
		"candidates", len(candidates),
		"chain_length", len(chain.Tools),
		"objective_score", chain.ObjectiveScore,
	)
	return chain, nil
}

// ChainCost sums the objective's transition costs along the visiting
// order. This is the quantity the assignment solve minimizes, exposed so
// callers can compare alternative orderings of the same tools; lower is
// better. Chains shorter than two tools cost zero.
func (o *Optimizer) ChainCost(objective Objective, ids []string) (float64, error) {
	if !objective.IsValid() {
		return 0, fmt.Errorf("optimize: invalid objective %q", objective)
	}
	sigs, err := o.resolve(ids)
	if err != nil {
		return 0, err
	}

	var total float64
	for i := 1; i < len(sigs); i++ {
		ea, _ := sigs[i-1].Entropy()
		eb, _ := sigs[i].Entropy()
		total += transitionCost(objective, sigs[i-1], sigs[i], ea, eb)
	}
	return total, nil
}

// ScoreChain computes the objective score of an arbitrary ordered chain,
// for before/after comparisons. An empty chain scores zero.
func (o *Optimizer) ScoreChain(objective Objective, ids []string) (float64, error) {
	if !objective.IsValid() {
		return 0, fmt.Errorf("optimize: invalid objective %q", objective)
	}
	sigs, err := o.resolve(ids)
	if err != nil {
		return 0, err
	}
	return scoreChain(objective, sigs), nil
}

// resolve maps identifiers to signatures, failing on unknowns.
func (o *Optimizer) resolve(ids []string) ([]*registry.ToolSignature, error) {
	sigs := make([]*registry.ToolSignature, len(ids))
	for i, id := range ids {
		tool, ok := o.tools.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("optimize: tool %q not in registry", id)
		}
		sigs[i] = tool
	}
	return sigs, nil
}

// selectCandidates applies the per-tool constraint filters: forbidden
// list, operator tier, and the optional CEL predicate.
func (o *Optimizer) selectCandidates(cons *Constraints, available []string) ([]*registry.ToolSignature, error) {
	var pool []*registry.ToolSignature
	if available == nil {
		pool = o.tools.Tools()
	} else {
		var err error
		pool, err = o.resolve(available)
		if err != nil {
			return nil, err
		}
	}

	filter, err := cons.compileFilter()
	if err != nil {
		return nil, err
	}

	candidates := make([]*registry.ToolSignature, 0, len(pool))
	for _, tool := range pool {
		if _, forbidden := cons.forbiddenTools[tool.ID]; forbidden {
			continue
		}
		if !cons.minTier.AtLeast(tool.MinTier) {
			continue
		}
		if filter != nil {
			keep, err := filter(tool)
			if err != nil {
				return nil, err
			}
			if !keep {
				continue
			}
		}
		candidates = append(candidates, tool)
	}
	return candidates, nil
}

// buildCostMatrix fills the N×N transition cost matrix for the objective.
func buildCostMatrix(objective Objective, tools []*registry.ToolSignature) [][]float64 {
	n := len(tools)
	scores := make([]float64, n)
	for i, tool := range tools {
		scores[i], _ = tool.Entropy()
	}

	cost := make([][]float64, n)
	for i := range cost {
		cost[i] = make([]float64, n)
		for j := range cost[i] {
			if i == j {
				cost[i][j] = forbiddenCost
				continue
			}
			cost[i][j] = transitionCost(objective, tools[i], tools[j], scores[i], scores[j])
		}
	}
	return cost
}

// transitionCost prices following tool a with tool b under the objective.
func transitionCost(objective Objective, a, b *registry.ToolSignature, ea, eb float64) float64 {
	switch objective {
	case ObjectiveStealth:
		return stealthCost(a, b, ea, eb)
	case ObjectiveSpeed:
		return speedCost(a, b)
	case ObjectiveCoverage:
		return coverageCost(a, b)
	default: // balanced
		return 0.5*stealthCost(a, b, ea, eb) + 0.3*speedCost(a, b) + 0.2*coverageCost(a, b)
	}
}

// stealthCost prices the destination's detection risk plus transition
// noise: jumping between tools of very different complexity is loud, and
// regressing to an earlier phase draws attention.
func stealthCost(a, b *registry.ToolSignature, ea, eb float64) float64 {
	noise := 0.5 * math.Abs(ea-eb)
	if b.Phase.Index() < a.Phase.Index() {
		noise += 2.0
	}
	return b.Dimensions.OperationalRisk*10 + noise
}

// speedCost prices the destination's cognitive load plus transition time,
// which grows with phase distance.
func speedCost(a, b *registry.ToolSignature) float64 {
	phaseGap := math.Abs(float64(b.Phase.Index() - a.Phase.Index()))
	return b.Dimensions.CognitiveLoad + 1 + phaseGap
}

// coverageCost penalizes staying in the same phase; visiting a new phase
// is free. This is the concrete diversity metric behind the coverage
// objective.
func coverageCost(a, b *registry.ToolSignature) float64 {
	if a.Phase == b.Phase {
		return 5.0
	}
	return 0
}

// unrollMatching turns the assignment permutation into a linear visiting
// order. The permutation decomposes into cycles; each cycle is broken at
// its most expensive edge and traversed from that edge's target, so the
// linear order keeps the cheap transitions. Cycles are emitted in order
// of their smallest member, which makes the result reproducible.
func unrollMatching(next []int, cost [][]float64) []int {
	n := len(next)
	visited := make([]bool, n)
	order := make([]int, 0, n)

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}

		var cycle []int
		for i := start; !visited[i]; i = next[i] {
			visited[i] = true
			cycle = append(cycle, i)
		}

		if len(cycle) == 1 {
			order = append(order, cycle[0])
			continue
		}

		worst := 0
		for k := 1; k < len(cycle); k++ {
			if cost[cycle[k]][next[cycle[k]]] > cost[cycle[worst]][next[cycle[worst]]] {
				worst = k
			}
		}
		for k := 1; k <= len(cycle); k++ {
			order = append(order, cycle[(worst+k)%len(cycle)])
		}
	}
	return order
}

// finalize trims the ordered chain to the constraints, re-validates them,
// and computes the chain's summary figures.
func (o *Optimizer) finalize(objective Objective, cons *Constraints, candidates []*registry.ToolSignature, order []int) (Chain, error) {
	chain := make([]*registry.ToolSignature, len(order))
	for i, idx := range order {
		chain[i] = candidates[idx]
	}

	required := make(map[taxonomy.Phase]bool, len(cons.requiredPhases))
	for _, phase := range cons.requiredPhases {
		required[phase] = true
	}

	// Protect the first tool seen for each required phase, then trim
	// unprotected tools from the end until the length cap holds.
	protected := make([]bool, len(chain))
	seen := make(map[taxonomy.Phase]bool)
	for i, tool := range chain {
		if required[tool.Phase] && !seen[tool.Phase] {
			protected[i] = true
			seen[tool.Phase] = true
		}
	}

	if cons.maxTools >= 0 && len(chain) > cons.maxTools {
		chain, protected = trim(chain, protected, cons.maxTools)
		if len(chain) > cons.maxTools {
			return Chain{}, &UnsatisfiableError{
				Constraint: "max_tools",
				Detail:     fmt.Sprintf("%d required phases cannot fit in %d tools", countTrue(protected), cons.maxTools),
			}
		}
	}

	if cons.maxTotalEntropy >= 0 {
		for totalEntropy(chain) > cons.maxTotalEntropy {
			var dropped bool
			chain, protected, dropped = dropLastUnprotected(chain, protected)
			if !dropped {
				return Chain{}, &UnsatisfiableError{
					Constraint: "max_total_entropy",
					Detail:     fmt.Sprintf("required tools alone carry %.2f entropy, cap is %.2f", totalEntropy(chain), cons.maxTotalEntropy),
				}
			}
		}
	}

	for _, phase := range cons.requiredPhases {
		if !containsPhase(chain, phase) {
			return Chain{}, &UnsatisfiableError{
				Constraint: "required_phases",
				Detail:     fmt.Sprintf("no candidate tool covers phase %q", phase),
			}
		}
	}

	if cons.minStealth > 0 {
		if stealth := stealthScore(chain); stealth < cons.minStealth {
			return Chain{}, &UnsatisfiableError{
				Constraint: "min_stealth",
				Detail:     fmt.Sprintf("achievable stealth %.3f below floor %.3f", stealth, cons.minStealth),
			}
		}
	}

	operator := persona.ForTier(cons.minTier)
	success := 1.0
	ids := make([]string, len(chain))
	for i, tool := range chain {
		ids[i] = tool.ID
		success *= persona.Match(operator, tool).Compatibility
	}
	if len(chain) == 0 {
		success = 0
	}

	return Chain{
		Tools:              ids,
		TotalEntropy:       totalEntropy(chain),
		SuccessProbability: success,
		ObjectiveScore:     scoreChain(objective, chain),
	}, nil
}

// trim removes unprotected tools from the end until the chain fits.
func trim(chain []*registry.ToolSignature, protected []bool, maxTools int) ([]*registry.ToolSignature, []bool) {
	for len(chain) > maxTools {
		var dropped bool
		chain, protected, dropped = dropLastUnprotected(chain, protected)
		if !dropped {
			break
		}
	}
	return chain, protected
}

// dropLastUnprotected removes the last unprotected tool, reporting false
// when every remaining tool is protected.
func dropLastUnprotected(chain []*registry.ToolSignature, protected []bool) ([]*registry.ToolSignature, []bool, bool) {
	for i := len(chain) - 1; i >= 0; i-- {
		if !protected[i] {
			chain = append(chain[:i], chain[i+1:]...)
			protected = append(protected[:i], protected[i+1:]...)
			return chain, protected, true
		}
	}
	return chain, protected, false
}

func countTrue(flags []bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

func totalEntropy(chain []*registry.ToolSignature) float64 {
	var sum float64
	for _, tool := range chain {
		score, _ := tool.Entropy()
		sum += score
	}
	return sum
}

func containsPhase(chain []*registry.ToolSignature, phase taxonomy.Phase) bool {
	for _, tool := range chain {
		if tool.Phase == phase {
			return true
		}
	}
	return false
}

// stealthScore is one minus the chain's mean operational risk.
func stealthScore(chain []*registry.ToolSignature) float64 {
	if len(chain) == 0 {
		return 0
	}
	var risk float64
	for _, tool := range chain {
		risk += tool.Dimensions.OperationalRisk
	}
	return 1 - risk/float64(len(chain))
}

// speedScore is one minus the chain's mean cognitive load on a 0-10 scale.
func speedScore(chain []*registry.ToolSignature) float64 {
	if len(chain) == 0 {
		return 0
	}
	var load float64
	for _, tool := range chain {
		load += tool.Dimensions.CognitiveLoad
	}
	return 1 - load/float64(len(chain))/10
}

// coverageScore is the count of distinct phases divided by chain length.
func coverageScore(chain []*registry.ToolSignature) float64 {
	if len(chain) == 0 {
		return 0
	}
	phases := make(map[taxonomy.Phase]struct{})
	for _, tool := range chain {
		phases[tool.Phase] = struct{}{}
	}
	return float64(len(phases)) / float64(len(chain))
}

// scoreChain maps a chain to the requested objective's achieved score.
func scoreChain(objective Objective, chain []*registry.ToolSignature) float64 {
	switch objective {
	case ObjectiveStealth:
		return stealthScore(chain)
	case ObjectiveSpeed:
		return speedScore(chain)
	case ObjectiveCoverage:
		return coverageScore(chain)
	default: // balanced
		return 0.5*stealthScore(chain) + 0.3*speedScore(chain) + 0.2*coverageScore(chain)
	}
}
