package detect

import (
	"time"

	"github.com/google/uuid"

	"github.com/teth-sec/teth/registry"
	"github.com/teth-sec/teth/taxonomy"
)

// Event is one observed tool usage. Events within a chain are strictly
// time-ordered; the detector trusts the order it is given and never sorts.
type Event struct {
	// ToolID must resolve in the tool registry.
	ToolID string `json:"tool_id"`

	// Timestamp is when the usage was observed.
	Timestamp time.Time `json:"timestamp"`

	// ChainID groups the event with others into an ordered sequence.
	// uuid.Nil marks an unchained event.
	ChainID uuid.UUID `json:"chain_id,omitempty"`
}

// DefaultWindowSize is the number of most recent events considered.
const DefaultWindowSize = 5

// escalationRun is how many consecutive terminal-phase events lock the
// verdict to dominate.
const escalationRun = 3

// lateralTechniques is the fixed technique tag set treated as a lateral
// movement signal in addition to the lateral-movement category itself.
var lateralTechniques = map[string]struct{}{
	"T1021": {},
	"T1550": {},
	"T1563": {},
	"T1570": {},
}

// Detector classifies campaign phases against one tool registry.
type Detector struct {
	tools  *registry.ToolRegistry
	window int
}

// Option configures a Detector.
type Option func(*Detector)

// WithWindowSize overrides the sliding window length. Values below one are
// ignored.
func WithWindowSize(n int) Option {
	return func(d *Detector) {
		if n >= 1 {
			d.window = n
		}
	}
}

// NewDetector creates a phase detector over the given registry.
func NewDetector(tools *registry.ToolRegistry, opts ...Option) *Detector {
	d := &Detector{tools: tools, window: DefaultWindowSize}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect returns the campaign phase for the most recent window of events.
// Events whose tool does not resolve in the registry are ignored; an empty
// or fully unresolvable window returns the initial phase.
func (d *Detector) Detect(events []Event) taxonomy.Phase {
	if len(events) > d.window {
		events = events[len(events)-d.window:]
	}

	phases := make([]taxonomy.Phase, 0, len(events))
	lateral := make([]bool, 0, len(events))
	for _, ev := range events {
		tool, ok := d.tools.Lookup(ev.ToolID)
		if !ok {
			continue
		}
		phases = append(phases, tool.Phase)
		lateral = append(lateral, isLateral(tool))
	}

	if len(phases) == 0 {
		return taxonomy.PhaseHunt
	}

	// Escalation override: once the last three usages are all terminal,
	// the campaign is in dominate no matter what came before.
	if run := min(escalationRun, len(phases)); run == escalationRun {
		allTerminal := true
		for _, p := range phases[len(phases)-run:] {
			if !p.IsTerminal() {
				allTerminal = false
				break
			}
		}
		if allTerminal {
			return taxonomy.PhaseDominate
		}
	}

	// Lateral override: recent lateral movement pins the verdict to
	// disable even against the window majority.
	recent := min(escalationRun, len(lateral))
	for _, l := range lateral[len(lateral)-recent:] {
		if l {
			return taxonomy.PhaseDisable
		}
	}

	return majority(phases)
}

// isLateral reports whether a tool counts as a lateral movement signal.
func isLateral(tool *registry.ToolSignature) bool {
	if tool.Category == taxonomy.CategoryLateralMovement {
		return true
	}
	for _, tag := range tool.Techniques {
		if _, ok := lateralTechniques[tag]; ok {
			return true
		}
	}
	return false
}

// majority returns the most frequent phase in the window. Ties break
// toward the later campaign phase: when the signal is split, the detector
// assumes escalation rather than regression.
func majority(phases []taxonomy.Phase) taxonomy.Phase {
	counts := make(map[taxonomy.Phase]int, len(phases))
	for _, p := range phases {
		counts[p]++
	}

	best := taxonomy.PhaseHunt
	bestCount := 0
	for _, candidate := range taxonomy.Phases() {
		if c := counts[candidate]; c >= bestCount && c > 0 {
			best = candidate
			bestCount = c
		}
	}
	return best
}
