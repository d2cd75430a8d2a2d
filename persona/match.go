package persona

import (
	"math"

	"github.com/teth-sec/teth/registry"
)

// MatchResult scores one persona/tool pairing.
type MatchResult struct {
	// Compatibility is how well the tool fits the persona's tolerance
	// band, always within [0, 1].
	Compatibility float64 `json:"compatibility"`

	// SuccessProbability is compatibility discounted by inexperience.
	SuccessProbability float64 `json:"success_probability"`

	// EntropyDelta is the tool's composite entropy minus the persona's
	// optimal point. Negative means the tool undershoots the operator.
	EntropyDelta float64 `json:"entropy_delta"`
}

// fullSeasoningHours is the experience level at which the experience factor
// saturates.
const fullSeasoningHours = 5000.0

// Match scores how well a tool suits a persona.
//
// Tools below the tolerance band are penalized for complacency risk: an
// operator running tools far beneath their level stops paying attention.
// Tools above the band are penalized harder for overload. Inside the band,
// compatibility decays linearly with distance from the midpoint, reaching
// at most a 30% penalty at the band edges.
func Match(p Persona, tool *registry.ToolSignature) MatchResult {
	score, _ := tool.Entropy()

	var compatibility float64
	switch {
	case score < p.MinEntropy:
		compatibility = 0.7 - 0.05*(p.MinEntropy-score)
	case score > p.MaxEntropy:
		compatibility = 1.0 - 0.1*(score-p.MaxEntropy)
	default:
		midpoint := (p.MinEntropy + p.MaxEntropy) / 2
		halfWidth := (p.MaxEntropy - p.MinEntropy) / 2
		if halfWidth > 0 {
			compatibility = 1.0 - 0.3*math.Abs(score-midpoint)/halfWidth
		} else {
			compatibility = 1.0
		}
	}
	compatibility = clamp01(compatibility)

	experienceFactor := math.Min(1.0, p.Experience/fullSeasoningHours)

	return MatchResult{
		Compatibility:      compatibility,
		SuccessProbability: compatibility * (0.7 + 0.3*experienceFactor),
		EntropyDelta:       score - p.OptimalEntropy,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
