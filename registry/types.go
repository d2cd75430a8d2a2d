package registry

import (
	"github.com/teth-sec/teth/entropy"
	"github.com/teth-sec/teth/taxonomy"
)

// ToolSignature describes one capability in the knowledge base: its tactic
// category, the campaign phase it signals, the five raw entropy dimensions,
// and the minimum operator tier required to use it competently.
type ToolSignature struct {
	// ID is the unique identifier for the tool within the registry.
	ID string `yaml:"id" json:"id" validate:"required"`

	// Category is the tactic the tool serves.
	Category taxonomy.Category `yaml:"category" json:"category"`

	// Phase is the campaign phase this tool's use most strongly signals.
	Phase taxonomy.Phase `yaml:"phase" json:"phase"`

	// Dimensions are the raw inputs to the composite entropy model.
	Dimensions entropy.Dimensions `yaml:"dimensions" json:"dimensions"`

	// MinTier is the lowest operator tier that can plausibly run the tool.
	MinTier taxonomy.Tier `yaml:"min_tier" json:"min_tier"`

	// Techniques holds external technique-reference tags (e.g. ATT&CK IDs).
	// The engine treats them as opaque strings.
	Techniques []string `yaml:"techniques,omitempty" json:"techniques,omitempty"`

	// ExclusiveTo names the actor that is the sole known user of this tool,
	// or is empty when the tool is shared tradecraft. Exclusivity is a much
	// stronger attribution signal than preference.
	ExclusiveTo string `yaml:"exclusive_to,omitempty" json:"exclusive_to,omitempty"`
}

// Entropy returns the tool's composite entropy score and uncertainty band.
// It is computed on demand from the stored dimensions, never cached, since
// the model is pure and cheap.
func (t *ToolSignature) Entropy() (score, uncertainty float64) {
	return entropy.Score(t.Dimensions)
}

// HasTechnique returns true if the signature carries the given technique tag.
func (t *ToolSignature) HasTechnique(tag string) bool {
	for _, technique := range t.Techniques {
		if technique == tag {
			return true
		}
	}
	return false
}

// ToolPreference pairs a tool identifier with how strongly an actor
// favors it. Weights are relative within one profile, not across profiles.
type ToolPreference struct {
	ToolID string  `yaml:"tool_id" json:"tool_id" validate:"required"`
	Weight float64 `yaml:"weight" json:"weight" validate:"min=0"`
}

// HourWindow is a daily activity window in UTC hours.
type HourWindow struct {
	Start int `yaml:"start" json:"start" validate:"min=0,max=23"`
	End   int `yaml:"end" json:"end" validate:"min=0,max=23"`
}

// DayRange bounds a campaign duration in days.
type DayRange struct {
	Min int `yaml:"min" json:"min" validate:"min=0"`
	Max int `yaml:"max" json:"max" validate:"min=0,gtefield=Min"`
}

// ActorProfile is the behavioral signature of a named threat actor:
// which tools it favors, the entropy band its chains typically occupy,
// which phases it prefers, and its operational rhythm.
type ActorProfile struct {
	// ID is the unique identifier for the actor within the registry.
	ID string `yaml:"id" json:"id" validate:"required"`

	// Name is the primary display name.
	Name string `yaml:"name" json:"name" validate:"required"`

	// Aliases lists alternate names in order of prevalence.
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`

	// PreferredTools lists the actor's known toolkit with per-tool weights,
	// ordered by observed frequency. Every referenced tool must exist in
	// the tool registry.
	PreferredTools []ToolPreference `yaml:"preferred_tools" json:"preferred_tools" validate:"dive"`

	// EntropyMean and EntropyStddev describe the composite-entropy
	// distribution of the actor's typical chains.
	EntropyMean   float64 `yaml:"entropy_mean" json:"entropy_mean" validate:"min=0"`
	EntropyStddev float64 `yaml:"entropy_stddev" json:"entropy_stddev" validate:"gt=0"`

	// PreferredPhases lists the campaign phases the actor favors, in order.
	PreferredPhases []taxonomy.Phase `yaml:"preferred_phases" json:"preferred_phases"`

	// Stealth is the actor's preference for low-noise tooling, 0 to 1.
	Stealth float64 `yaml:"stealth" json:"stealth" validate:"min=0,max=1"`

	// ActiveHours is the actor's typical daily operating window, UTC.
	ActiveHours HourWindow `yaml:"active_hours" json:"active_hours"`

	// CampaignDays bounds how long the actor's campaigns usually run.
	CampaignDays DayRange `yaml:"campaign_days" json:"campaign_days"`
}

// PreferenceWeight returns the actor's weight for a tool and whether the
// tool appears in the profile at all.
func (a *ActorProfile) PreferenceWeight(toolID string) (float64, bool) {
	for _, pref := range a.PreferredTools {
		if pref.ToolID == toolID {
			return pref.Weight, true
		}
	}
	return 0, false
}
