package taxonomy

import "fmt"

// Tier classifies an operator's skill level. Tiers are ordered from entry
// to elite; tool signatures carry a minimum tier, and the chain optimizer
// excludes tools above the requesting operator's tier.
type Tier string

const (
	TierEntry        Tier = "entry"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
	TierElite        Tier = "elite"
)

var tierOrder = []Tier{TierEntry, TierIntermediate, TierAdvanced, TierElite}

// Tiers returns all tiers in ascending skill order.
func Tiers() []Tier {
	out := make([]Tier, len(tierOrder))
	copy(out, tierOrder)
	return out
}

// IsValid returns true if the tier is a recognized value.
func (t Tier) IsValid() bool {
	switch t {
	case TierEntry, TierIntermediate, TierAdvanced, TierElite:
		return true
	default:
		return false
	}
}

// String returns the string representation of the tier.
func (t Tier) String() string {
	return string(t)
}

// Index returns the zero-based position of the tier in skill order.
// Returns -1 for invalid tiers.
func (t Tier) Index() int {
	for i, candidate := range tierOrder {
		if candidate == t {
			return i
		}
	}
	return -1
}

// AtLeast returns true if t is the same tier as other or a higher one.
func (t Tier) AtLeast(other Tier) bool {
	return t.Index() >= other.Index()
}

// ParseTier parses a string into a Tier value.
// Returns an error if the string is not a valid tier.
func ParseTier(s string) (Tier, error) {
	tier := Tier(s)
	if !tier.IsValid() {
		return "", fmt.Errorf("invalid tier: %q", s)
	}
	return tier, nil
}
