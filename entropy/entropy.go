package entropy

import "math"

// Dimensions holds the five raw complexity measurements for a tool.
// The validate tags declare the legal range for each field; the registry
// loader enforces them before a signature becomes visible to any consumer.
type Dimensions struct {
	// BranchingPaths counts the distinct execution paths the tool can take.
	BranchingPaths int `yaml:"branching_paths" json:"branching_paths" validate:"min=1,max=100000000"`

	// CognitiveLoad rates the mental effort required to drive the tool.
	CognitiveLoad float64 `yaml:"cognitive_load" json:"cognitive_load" validate:"min=1,max=10"`

	// Variability rates how much the tool's behavior changes between runs.
	Variability float64 `yaml:"variability" json:"variability" validate:"min=1,max=10"`

	// OperationalRisk is the probability of detection or failure per use.
	OperationalRisk float64 `yaml:"operational_risk" json:"operational_risk" validate:"min=0,max=1"`

	// FeedbackClarity rates how clearly the tool reports what it did.
	FeedbackClarity float64 `yaml:"feedback_clarity" json:"feedback_clarity" validate:"min=0,max=1"`
}

// Score converts raw dimensions into a composite entropy value and its
// uncertainty band.
//
// The interaction term exists because high branching complexity compounds
// cognitive load disproportionately: a tool with many paths and high mental
// overhead is harder than the sum of the parts. Poor feedback clarity
// doubles effective risk, independent of the raw risk value, since an
// operator flying blind cannot correct an already risky tool.
func Score(d Dimensions) (score, uncertainty float64) {
	base := math.Log2(math.Max(1, float64(d.BranchingPaths)))
	cognitive := d.CognitiveLoad * (1 + 0.1*d.Variability)

	risk := d.OperationalRisk
	if d.FeedbackClarity < 0.5 {
		risk *= 2.0
	}

	interaction := 0.2 * base * cognitive
	return base + cognitive + risk + interaction, 0.5 * d.Variability
}
