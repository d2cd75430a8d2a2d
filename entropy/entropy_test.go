package entropy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_KnownValues(t *testing.T) {
	tests := []struct {
		name            string
		dims            Dimensions
		wantScore       float64
		wantUncertainty float64
	}{
		{
			name: "single path minimal tool",
			dims: Dimensions{
				BranchingPaths:  1,
				CognitiveLoad:   1.0,
				Variability:     1.0,
				OperationalRisk: 0.0,
				FeedbackClarity: 1.0,
			},
			// base=0, cognitive=1.1, risk=0, interaction=0
			wantScore:       1.1,
			wantUncertainty: 0.5,
		},
		{
			name: "risk doubled by poor feedback",
			dims: Dimensions{
				BranchingPaths:  1,
				CognitiveLoad:   1.0,
				Variability:     1.0,
				OperationalRisk: 0.5,
				FeedbackClarity: 0.4,
			},
			// risk' = 0.5 * 2.0 = 1.0
			wantScore:       2.1,
			wantUncertainty: 0.5,
		},
		{
			name: "branching drives base and interaction",
			dims: Dimensions{
				BranchingPaths:  1024,
				CognitiveLoad:   5.0,
				Variability:     2.0,
				OperationalRisk: 0.5,
				FeedbackClarity: 0.9,
			},
			// base=10, cognitive=6, risk=0.5, interaction=0.2*10*6=12
			wantScore:       28.5,
			wantUncertainty: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, uncertainty := Score(tt.dims)
			assert.InDelta(t, tt.wantScore, score, 1e-9)
			assert.InDelta(t, tt.wantUncertainty, uncertainty, 1e-9)
		})
	}
}

func TestScore_Deterministic(t *testing.T) {
	dims := Dimensions{
		BranchingPaths:  77777,
		CognitiveLoad:   7.3,
		Variability:     4.1,
		OperationalRisk: 0.62,
		FeedbackClarity: 0.48,
	}

	s1, u1 := Score(dims)
	s2, u2 := Score(dims)

	// Bit-identical, not merely close.
	assert.Equal(t, math.Float64bits(s1), math.Float64bits(s2))
	assert.Equal(t, math.Float64bits(u1), math.Float64bits(u2))
}

func TestScore_NonNegative(t *testing.T) {
	// Sweep the corners of every dimension range.
	for _, paths := range []int{1, 100000000} {
		for _, load := range []float64{1.0, 10.0} {
			for _, variability := range []float64{1.0, 10.0} {
				for _, risk := range []float64{0.0, 1.0} {
					for _, clarity := range []float64{0.0, 1.0} {
						score, uncertainty := Score(Dimensions{
							BranchingPaths:  paths,
							CognitiveLoad:   load,
							Variability:     variability,
							OperationalRisk: risk,
							FeedbackClarity: clarity,
						})
						assert.GreaterOrEqual(t, score, 0.0)
						assert.GreaterOrEqual(t, uncertainty, 0.0)
					}
				}
			}
		}
	}
}

func TestScore_FeedbackClarityBoundary(t *testing.T) {
	dims := Dimensions{
		BranchingPaths:  1,
		CognitiveLoad:   1.0,
		Variability:     1.0,
		OperationalRisk: 1.0,
	}

	dims.FeedbackClarity = 0.5
	atBoundary, _ := Score(dims)

	dims.FeedbackClarity = 0.49999
	belowBoundary, _ := Score(dims)

	// Doubling applies strictly below 0.5.
	assert.InDelta(t, 1.0, belowBoundary-atBoundary, 1e-9)
}
