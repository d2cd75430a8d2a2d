package taxonomy

import "fmt"

// Phase represents one stage of an observed campaign. Phases are strictly
// ordered: a chain is expected to progress from hunt toward dominate, and
// the phase detector treats movement into dominate as irreversible.
type Phase string

const (
	// PhaseHunt is the initial stage: reconnaissance and target selection.
	PhaseHunt Phase = "hunt"

	// PhaseDetect covers enumeration and weakness identification.
	PhaseDetect Phase = "detect"

	// PhaseDisrupt covers initial access and execution against the target.
	PhaseDisrupt Phase = "disrupt"

	// PhaseDisable covers lateral movement and defensive degradation.
	PhaseDisable Phase = "disable"

	// PhaseDominate is the terminal stage: full objective control.
	// It has no successor.
	PhaseDominate Phase = "dominate"
)

// phaseOrder fixes the progression used by Index, Next, and the predictor.
var phaseOrder = []Phase{PhaseHunt, PhaseDetect, PhaseDisrupt, PhaseDisable, PhaseDominate}

// Phases returns all phases in campaign order.
func Phases() []Phase {
	out := make([]Phase, len(phaseOrder))
	copy(out, phaseOrder)
	return out
}

// IsValid returns true if the phase is a recognized value.
func (p Phase) IsValid() bool {
	switch p {
	case PhaseHunt, PhaseDetect, PhaseDisrupt, PhaseDisable, PhaseDominate:
		return true
	default:
		return false
	}
}

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// Index returns the zero-based position of the phase in campaign order.
// Returns -1 for invalid phases.
func (p Phase) Index() int {
	for i, candidate := range phaseOrder {
		if candidate == p {
			return i
		}
	}
	return -1
}

// Next returns the phase that follows p in campaign order. The second
// return value is false when p is the terminal phase or invalid.
func (p Phase) Next() (Phase, bool) {
	idx := p.Index()
	if idx < 0 || idx == len(phaseOrder)-1 {
		return "", false
	}
	return phaseOrder[idx+1], true
}

// IsTerminal returns true if the phase has no successor.
func (p Phase) IsTerminal() bool {
	return p == PhaseDominate
}

// ParsePhase parses a string into a Phase value.
// Returns an error if the string is not a valid phase.
func ParsePhase(s string) (Phase, error) {
	phase := Phase(s)
	if !phase.IsValid() {
		return "", fmt.Errorf("invalid phase: %q", s)
	}
	return phase, nil
}
