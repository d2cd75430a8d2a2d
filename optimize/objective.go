package optimize

import "fmt"

// Objective selects what the optimizer minimizes when ordering tools.
type Objective string

const (
	// ObjectiveStealth minimizes detection risk and noisy transitions.
	ObjectiveStealth Objective = "stealth"

	// ObjectiveSpeed minimizes cognitive load and transition overhead.
	ObjectiveSpeed Objective = "speed"

	// ObjectiveCoverage maximizes phase diversity across the chain.
	ObjectiveCoverage Objective = "coverage"

	// ObjectiveBalanced blends stealth, speed, and coverage at fixed
	// weights (0.5, 0.3, 0.2).
	ObjectiveBalanced Objective = "balanced"
)

// IsValid returns true if the objective is a recognized value.
func (o Objective) IsValid() bool {
	switch o {
	case ObjectiveStealth, ObjectiveSpeed, ObjectiveCoverage, ObjectiveBalanced:
		return true
	default:
		return false
	}
}

// String returns the string representation of the objective.
func (o Objective) String() string {
	return string(o)
}

// ParseObjective parses a string into an Objective value.
// Returns an error if the string is not a valid objective.
func ParseObjective(s string) (Objective, error) {
	objective := Objective(s)
	if !objective.IsValid() {
		return "", fmt.Errorf("invalid objective: %q", s)
	}
	return objective, nil
}
