package registry

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teth-sec/teth/entropy"
	"github.com/teth-sec/teth/taxonomy"
)

// validDims returns in-range dimensions for synthetic signatures.
func validDims() entropy.Dimensions {
	return entropy.Dimensions{
		BranchingPaths:  256,
		CognitiveLoad:   4.0,
		Variability:     2.0,
		OperationalRisk: 0.3,
		FeedbackClarity: 0.7,
	}
}

func validTool(id string) *ToolSignature {
	return &ToolSignature{
		ID:         id,
		Category:   taxonomy.CategoryDiscovery,
		Phase:      taxonomy.PhaseDetect,
		Dimensions: validDims(),
		MinTier:    taxonomy.TierEntry,
	}
}

func TestNewToolRegistry_Valid(t *testing.T) {
	reg, err := NewToolRegistry(validTool("alpha"), validTool("beta"))
	require.NoError(t, err)

	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, []string{"alpha", "beta"}, reg.IDs())

	tool, ok := reg.Lookup("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", tool.ID)

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
}

func TestNewToolRegistry_DuplicateID(t *testing.T) {
	_, err := NewToolRegistry(validTool("alpha"), validTool("alpha"))

	var dup *DuplicateIDError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "tools", dup.Registry)
	assert.Equal(t, "alpha", dup.ID)
}

func TestNewToolRegistry_RangeViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ToolSignature)
	}{
		{"zero branching paths", func(s *ToolSignature) { s.Dimensions.BranchingPaths = 0 }},
		{"branching paths above cap", func(s *ToolSignature) { s.Dimensions.BranchingPaths = 100000001 }},
		{"cognitive load below one", func(s *ToolSignature) { s.Dimensions.CognitiveLoad = 0.5 }},
		{"cognitive load above ten", func(s *ToolSignature) { s.Dimensions.CognitiveLoad = 10.5 }},
		{"variability above ten", func(s *ToolSignature) { s.Dimensions.Variability = 11 }},
		{"negative risk", func(s *ToolSignature) { s.Dimensions.OperationalRisk = -0.1 }},
		{"risk above one", func(s *ToolSignature) { s.Dimensions.OperationalRisk = 1.5 }},
		{"clarity above one", func(s *ToolSignature) { s.Dimensions.FeedbackClarity = 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := validTool("bad")
			tt.mutate(tool)

			_, err := NewToolRegistry(tool)
			var rangeErr *RangeError
			require.ErrorAs(t, err, &rangeErr)
			assert.Equal(t, "bad", rangeErr.ID)
		})
	}
}

func TestNewToolRegistry_InvalidEnums(t *testing.T) {
	tool := validTool("bad")
	tool.Category = "recon"
	_, err := NewToolRegistry(tool)
	var rangeErr *RangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "Category", rangeErr.Field)

	tool = validTool("bad")
	tool.Phase = "destroy"
	_, err = NewToolRegistry(tool)
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "Phase", rangeErr.Field)

	tool = validTool("bad")
	tool.MinTier = "guru"
	_, err = NewToolRegistry(tool)
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "MinTier", rangeErr.Field)
}

func TestNewActorRegistry_MissingToolReference(t *testing.T) {
	tools, err := NewToolRegistry()
	require.NoError(t, err)

	ghost := &ActorProfile{
		ID:   "ghost",
		Name: "Ghost",
		PreferredTools: []ToolPreference{
			{ToolID: "nonexistent-tool", Weight: 1.0},
		},
		EntropyMean:   10,
		EntropyStddev: 2,
		Stealth:       0.5,
	}

	_, err = NewActorRegistry(tools, ghost)
	var integrity *IntegrityError
	require.ErrorAs(t, err, &integrity)
	assert.Equal(t, "ghost", integrity.ActorID)
	assert.Equal(t, "nonexistent-tool", integrity.ToolID)
	assert.Contains(t, err.Error(), "nonexistent-tool")
}

func TestNewActorRegistry_Valid(t *testing.T) {
	tools, err := NewToolRegistry(validTool("alpha"))
	require.NoError(t, err)

	actor := &ActorProfile{
		ID:   "wraith",
		Name: "Wraith",
		PreferredTools: []ToolPreference{
			{ToolID: "alpha", Weight: 2.0},
		},
		EntropyMean:     15,
		EntropyStddev:   4,
		PreferredPhases: []taxonomy.Phase{taxonomy.PhaseDetect},
		Stealth:         0.7,
		ActiveHours:     HourWindow{Start: 9, End: 17},
		CampaignDays:    DayRange{Min: 7, Max: 30},
	}

	actors, err := NewActorRegistry(tools, actor)
	require.NoError(t, err)
	assert.Equal(t, 1, actors.Len())

	got, ok := actors.Lookup("wraith")
	require.True(t, ok)
	weight, found := got.PreferenceWeight("alpha")
	assert.True(t, found)
	assert.Equal(t, 2.0, weight)
}

func TestNewActorRegistry_NegativeWeight(t *testing.T) {
	tools, err := NewToolRegistry(validTool("alpha"))
	require.NoError(t, err)

	actor := &ActorProfile{
		ID:   "bad",
		Name: "Bad",
		PreferredTools: []ToolPreference{
			{ToolID: "alpha", Weight: -1.0},
		},
		EntropyMean:   10,
		EntropyStddev: 2,
	}

	_, err = NewActorRegistry(tools, actor)
	var rangeErr *RangeError
	require.ErrorAs(t, err, &rangeErr)
}

func TestLoadTools_Fixture(t *testing.T) {
	tools, err := LoadToolsFile("testdata/tools.yaml")
	require.NoError(t, err)
	assert.Equal(t, 18, tools.Len())

	implant, ok := tools.Lookup("zero-noise-implant")
	require.True(t, ok)
	assert.Equal(t, taxonomy.PhaseDisrupt, implant.Phase)
	assert.Equal(t, taxonomy.TierElite, implant.MinTier)
	assert.Equal(t, "glasswing-bear", implant.ExclusiveTo)
	assert.True(t, implant.HasTechnique("T1014"))

	score, uncertainty := implant.Entropy()
	assert.Greater(t, score, 0.0)
	assert.Equal(t, 1.5, uncertainty)
}

func TestLoadActors_Fixture(t *testing.T) {
	tools, err := LoadToolsFile("testdata/tools.yaml")
	require.NoError(t, err)

	actors, err := LoadActorsFile("testdata/actors.yaml", tools)
	require.NoError(t, err)
	assert.Equal(t, 4, actors.Len())

	bear, ok := actors.Lookup("glasswing-bear")
	require.True(t, ok)
	assert.Equal(t, "Glasswing Bear", bear.Name)
	assert.Equal(t, 0.85, bear.Stealth)
	assert.Len(t, bear.PreferredTools, 6)
}

func TestLoadTools_UnknownField(t *testing.T) {
	src := `
tools:
  - id: typo-tool
    category: discovery
    phase: detect
    dimenssions:
      branching_paths: 4
      cognitive_load: 2
      variability: 2
      operational_risk: 0.1
      feedback_clarity: 0.9
    min_tier: entry
`
	_, err := LoadTools(strings.NewReader(src))
	require.Error(t, err)
}

func TestLoadToolsFile_Missing(t *testing.T) {
	_, err := LoadToolsFile("testdata/does-not-exist.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
