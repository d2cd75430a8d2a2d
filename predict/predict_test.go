package predict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teth-sec/teth/attribution"
	"github.com/teth-sec/teth/entropy"
	"github.com/teth-sec/teth/registry"
	"github.com/teth-sec/teth/taxonomy"
)

func phaseSig(id string, phase taxonomy.Phase) *registry.ToolSignature {
	return &registry.ToolSignature{
		ID:       id,
		Category: taxonomy.CategoryExecution,
		Phase:    phase,
		MinTier:  taxonomy.TierEntry,
		Dimensions: entropy.Dimensions{
			BranchingPaths:  64,
			CognitiveLoad:   3,
			Variability:     2,
			OperationalRisk: 0.2,
			FeedbackClarity: 0.8,
		},
	}
}

func testPredictor(t *testing.T) *Predictor {
	t.Helper()

	tools, err := registry.NewToolRegistry(
		phaseSig("recon-a", taxonomy.PhaseHunt),
		phaseSig("detect-a", taxonomy.PhaseDetect),
		phaseSig("detect-b", taxonomy.PhaseDetect),
		phaseSig("detect-c", taxonomy.PhaseDetect),
		phaseSig("detect-d", taxonomy.PhaseDetect),
		phaseSig("detect-e", taxonomy.PhaseDetect),
		phaseSig("detect-f", taxonomy.PhaseDetect),
		phaseSig("disrupt-a", taxonomy.PhaseDisrupt),
	)
	require.NoError(t, err)

	actors, err := registry.NewActorRegistry(tools,
		&registry.ActorProfile{
			ID:   "wraith",
			Name: "Wraith",
			PreferredTools: []registry.ToolPreference{
				{ToolID: "detect-a", Weight: 3.0},
				{ToolID: "detect-b", Weight: 2.0},
				{ToolID: "detect-c", Weight: 1.5},
				{ToolID: "detect-d", Weight: 1.0},
				{ToolID: "detect-e", Weight: 0.8},
				{ToolID: "detect-f", Weight: 0.4},
				{ToolID: "disrupt-a", Weight: 2.5},
			},
			EntropyMean:   15,
			EntropyStddev: 5,
			Stealth:       0.5,
		},
	)
	require.NoError(t, err)

	return New(tools, actors)
}

func attributed(actorID string, confidence float64) attribution.Result {
	return attribution.Result{ActorID: actorID, Confidence: confidence}
}

func TestNext_LowConfidenceReturnsEmpty(t *testing.T) {
	p := testPredictor(t)

	assert.Nil(t, p.Next(attributed("wraith", 0.3), taxonomy.PhaseHunt))
	assert.Nil(t, p.Next(attributed("wraith", 0.5), taxonomy.PhaseHunt))
	assert.Nil(t, p.Next(attribution.Result{}, taxonomy.PhaseHunt))
}

func TestNext_TerminalPhaseReturnsEmpty(t *testing.T) {
	p := testPredictor(t)

	assert.Nil(t, p.Next(attributed("wraith", 0.9), taxonomy.PhaseDominate))
}

func TestNext_RanksNextPhaseTools(t *testing.T) {
	p := testPredictor(t)

	got := p.Next(attributed("wraith", 0.8), taxonomy.PhaseHunt)
	require.Len(t, got, 5)

	// Top five detect-phase tools by preference weight, trimmed to five.
	wantOrder := []string{"detect-a", "detect-b", "detect-c", "detect-d", "detect-e"}
	for i, want := range wantOrder {
		assert.Equal(t, want, got[i].ToolID)
	}

	// Probabilities are descending and renormalized over the trimmed list.
	var sum float64
	for i, pr := range got {
		if i > 0 {
			assert.LessOrEqual(t, pr.Probability, got[i-1].Probability)
		}
		sum += pr.Probability
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	// Relative weights survive normalization: detect-a is 1.5x detect-b.
	assert.InDelta(t, 1.5, got[0].Probability/got[1].Probability, 1e-9)
}

func TestNext_NoToolkitOverlapReturnsEmpty(t *testing.T) {
	p := testPredictor(t)

	// The phase after disrupt is disable; the toolkit has nothing there.
	assert.Nil(t, p.Next(attributed("wraith", 0.8), taxonomy.PhaseDisrupt))
}

func TestNext_UnknownActorReturnsEmpty(t *testing.T) {
	p := testPredictor(t)

	assert.Nil(t, p.Next(attributed("nobody", 0.9), taxonomy.PhaseHunt))
}
