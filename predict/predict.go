package predict

import (
	"sort"

	"github.com/teth-sec/teth/attribution"
	"github.com/teth-sec/teth/registry"
	"github.com/teth-sec/teth/taxonomy"
)

// confidenceFloor is the attribution confidence below which the predictor
// stays silent.
const confidenceFloor = 0.5

// maxPredictions caps the ranked list length.
const maxPredictions = 5

// Prediction is one ranked next-tool candidate.
type Prediction struct {
	// ToolID identifies the candidate tool.
	ToolID string `json:"tool_id"`

	// Probability is the candidate's normalized likelihood; probabilities
	// across the returned list sum to one.
	Probability float64 `json:"probability"`
}

// Predictor ranks next actions against one pair of registries.
type Predictor struct {
	tools  *registry.ToolRegistry
	actors *registry.ActorRegistry
}

// New creates a predictor over the given registries.
func New(tools *registry.ToolRegistry, actors *registry.ActorRegistry) *Predictor {
	return &Predictor{tools: tools, actors: actors}
}

// Next returns up to five ranked next-tool candidates for the attributed
// actor, drawn from the phase that follows current. It returns nil when
// attribution confidence is at or below 0.5, when the campaign is already
// terminal, or when the actor's toolkit has nothing in the next phase.
func (p *Predictor) Next(res attribution.Result, current taxonomy.Phase) []Prediction {
	if res.Confidence <= confidenceFloor || !res.Attributed() {
		return nil
	}

	next, ok := current.Next()
	if !ok {
		return nil
	}

	actor, ok := p.actors.Lookup(res.ActorID)
	if !ok {
		return nil
	}

	// Walk the actor's toolkit in preference order so equal weights rank
	// deterministically by the profile's own ordering.
	predictions := make([]Prediction, 0, len(actor.PreferredTools))
	var total float64
	for _, pref := range actor.PreferredTools {
		tool, ok := p.tools.Lookup(pref.ToolID)
		if !ok || tool.Phase != next {
			continue
		}
		weight := pref.Weight * res.Confidence
		if weight <= 0 {
			continue
		}
		predictions = append(predictions, Prediction{ToolID: tool.ID, Probability: weight})
		total += weight
	}

	if total == 0 {
		return nil
	}

	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Probability > predictions[j].Probability
	})
	if len(predictions) > maxPredictions {
		predictions = predictions[:maxPredictions]
		total = 0
		for _, pr := range predictions {
			total += pr.Probability
		}
	}

	for i := range predictions {
		predictions[i].Probability /= total
	}
	return predictions
}
