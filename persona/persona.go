package persona

import (
	"github.com/teth-sec/teth/taxonomy"
)

// Persona describes an operator's entropy tolerance band and accumulated
// experience. OptimalEntropy is normally the band midpoint but may be
// biased by callers that know the operator better.
type Persona struct {
	// Tier is the operator's skill classification.
	Tier taxonomy.Tier

	// MinEntropy and MaxEntropy bound the tolerance band.
	MinEntropy float64
	MaxEntropy float64

	// OptimalEntropy is the operator's sweet spot within the band.
	OptimalEntropy float64

	// Experience is accumulated operating time in hours. 5000 hours marks
	// full seasoning; beyond that, experience stops improving outcomes.
	Experience float64
}

// tierDefaults fixes the canonical tolerance band and seasoning per tier.
var tierDefaults = map[taxonomy.Tier]Persona{
	taxonomy.TierEntry:        {Tier: taxonomy.TierEntry, MinEntropy: 0, MaxEntropy: 14, Experience: 200},
	taxonomy.TierIntermediate: {Tier: taxonomy.TierIntermediate, MinEntropy: 8, MaxEntropy: 26, Experience: 1200},
	taxonomy.TierAdvanced:     {Tier: taxonomy.TierAdvanced, MinEntropy: 16, MaxEntropy: 42, Experience: 3000},
	taxonomy.TierElite:        {Tier: taxonomy.TierElite, MinEntropy: 24, MaxEntropy: 65, Experience: 6000},
}

// ForTier returns the canonical persona for a tier, with OptimalEntropy at
// the band midpoint. Invalid tiers fall back to the entry persona.
func ForTier(tier taxonomy.Tier) Persona {
	p, ok := tierDefaults[tier]
	if !ok {
		p = tierDefaults[taxonomy.TierEntry]
	}
	p.OptimalEntropy = (p.MinEntropy + p.MaxEntropy) / 2
	return p
}
