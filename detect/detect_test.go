package detect

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teth-sec/teth/entropy"
	"github.com/teth-sec/teth/registry"
	"github.com/teth-sec/teth/taxonomy"
)

// phaseTool builds a minimal signature pinned to one phase.
func phaseTool(id string, phase taxonomy.Phase, category taxonomy.Category, techniques ...string) *registry.ToolSignature {
	return &registry.ToolSignature{
		ID:       id,
		Category: category,
		Phase:    phase,
		MinTier:  taxonomy.TierEntry,
		Dimensions: entropy.Dimensions{
			BranchingPaths:  16,
			CognitiveLoad:   2,
			Variability:     2,
			OperationalRisk: 0.2,
			FeedbackClarity: 0.8,
		},
		Techniques: techniques,
	}
}

func testRegistry(t *testing.T) *registry.ToolRegistry {
	t.Helper()
	reg, err := registry.NewToolRegistry(
		phaseTool("scout", taxonomy.PhaseHunt, taxonomy.CategoryReconnaissance),
		phaseTool("mapper", taxonomy.PhaseDetect, taxonomy.CategoryDiscovery),
		phaseTool("breacher", taxonomy.PhaseDisrupt, taxonomy.CategoryInitialAccess),
		phaseTool("crusher", taxonomy.PhaseDisable, taxonomy.CategoryPrivilegeEscalation),
		phaseTool("pivot", taxonomy.PhaseDetect, taxonomy.CategoryLateralMovement),
		phaseTool("ticket-passer", taxonomy.PhaseHunt, taxonomy.CategoryExecution, "T1550"),
		phaseTool("overlord", taxonomy.PhaseDominate, taxonomy.CategoryCommandAndControl),
	)
	require.NoError(t, err)
	return reg
}

func events(ids ...string) []Event {
	chain := uuid.New()
	out := make([]Event, len(ids))
	base := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	for i, id := range ids {
		out[i] = Event{ToolID: id, Timestamp: base.Add(time.Duration(i) * time.Minute), ChainID: chain}
	}
	return out
}

func TestDetect_EmptyWindow(t *testing.T) {
	d := NewDetector(testRegistry(t))
	assert.Equal(t, taxonomy.PhaseHunt, d.Detect(nil))
	assert.Equal(t, taxonomy.PhaseHunt, d.Detect([]Event{}))
}

func TestDetect_Majority(t *testing.T) {
	d := NewDetector(testRegistry(t))

	got := d.Detect(events("scout", "scout", "mapper", "scout", "breacher"))
	assert.Equal(t, taxonomy.PhaseHunt, got)
}

func TestDetect_MajorityTieEscalates(t *testing.T) {
	d := NewDetector(testRegistry(t))

	// Two hunt, two disrupt: a split signal reads as escalation.
	got := d.Detect(events("scout", "scout", "breacher", "breacher"))
	assert.Equal(t, taxonomy.PhaseDisrupt, got)
}

func TestDetect_DominateOverride(t *testing.T) {
	d := NewDetector(testRegistry(t))

	// Majority is hunt, but three consecutive terminal events lock dominate.
	got := d.Detect(events("scout", "scout", "overlord", "overlord", "overlord"))
	assert.Equal(t, taxonomy.PhaseDominate, got)
}

func TestDetect_DominateOverrideNeedsThree(t *testing.T) {
	d := NewDetector(testRegistry(t))

	got := d.Detect(events("scout", "scout", "scout", "overlord", "overlord"))
	assert.NotEqual(t, taxonomy.PhaseDominate, got)
}

func TestDetect_LateralCategoryForcesDisable(t *testing.T) {
	d := NewDetector(testRegistry(t))

	// "pivot" maps to detect but its category is lateral movement.
	got := d.Detect(events("scout", "scout", "scout", "scout", "pivot"))
	assert.Equal(t, taxonomy.PhaseDisable, got)
}

func TestDetect_LateralTechniqueTagForcesDisable(t *testing.T) {
	d := NewDetector(testRegistry(t))

	// "ticket-passer" is a hunt-phase execution tool carrying T1550.
	got := d.Detect(events("scout", "scout", "scout", "ticket-passer", "scout"))
	assert.Equal(t, taxonomy.PhaseDisable, got)
}

func TestDetect_LateralOutsideLastThreeIgnored(t *testing.T) {
	d := NewDetector(testRegistry(t))

	got := d.Detect(events("pivot", "scout", "scout", "scout", "scout"))
	assert.Equal(t, taxonomy.PhaseHunt, got)
}

func TestDetect_WindowTruncation(t *testing.T) {
	d := NewDetector(testRegistry(t))

	// Ten disrupt events followed by five detect events: only the window
	// counts.
	ids := make([]string, 0, 15)
	for i := 0; i < 10; i++ {
		ids = append(ids, "breacher")
	}
	for i := 0; i < 5; i++ {
		ids = append(ids, "mapper")
	}
	assert.Equal(t, taxonomy.PhaseDetect, d.Detect(events(ids...)))
}

func TestDetect_CustomWindowSize(t *testing.T) {
	d := NewDetector(testRegistry(t), WithWindowSize(3))

	// With a window of three, the early hunt events fall away.
	got := d.Detect(events("scout", "scout", "breacher", "breacher", "mapper"))
	assert.Equal(t, taxonomy.PhaseDisrupt, got)
}

func TestDetect_UnknownToolsIgnored(t *testing.T) {
	d := NewDetector(testRegistry(t))

	assert.Equal(t, taxonomy.PhaseHunt, d.Detect(events("no-such-tool")))
	assert.Equal(t, taxonomy.PhaseDetect, d.Detect(events("no-such-tool", "mapper")))
}
