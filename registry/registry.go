package registry

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is shared by both constructors. The struct tags on the record
// types declare every numeric bound from the data model.
var validate = validator.New()

// ToolRegistry is the immutable table of tool signatures. Iteration order
// is load order, so results derived from the registry are reproducible.
type ToolRegistry struct {
	byID  map[string]*ToolSignature
	order []string
}

// NewToolRegistry validates the given signatures and builds a registry.
// It fails with a RangeError on any out-of-bounds field and with a
// DuplicateIDError on a repeated identifier.
func NewToolRegistry(tools ...*ToolSignature) (*ToolRegistry, error) {
	r := &ToolRegistry{
		byID:  make(map[string]*ToolSignature, len(tools)),
		order: make([]string, 0, len(tools)),
	}

	for _, tool := range tools {
		if err := validateTool(tool); err != nil {
			return nil, err
		}
		if _, exists := r.byID[tool.ID]; exists {
			return nil, &DuplicateIDError{Registry: "tools", ID: tool.ID}
		}
		r.byID[tool.ID] = tool
		r.order = append(r.order, tool.ID)
	}

	return r, nil
}

// Lookup returns the signature for the given identifier.
func (r *ToolRegistry) Lookup(id string) (*ToolSignature, bool) {
	tool, ok := r.byID[id]
	return tool, ok
}

// Tools returns all signatures in load order.
func (r *ToolRegistry) Tools() []*ToolSignature {
	out := make([]*ToolSignature, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// IDs returns all tool identifiers in load order.
func (r *ToolRegistry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered signatures.
func (r *ToolRegistry) Len() int {
	return len(r.order)
}

// ActorRegistry is the immutable table of actor behavioral profiles.
type ActorRegistry struct {
	byID  map[string]*ActorProfile
	order []string
}

// NewActorRegistry validates the given profiles against the tool registry
// and builds an actor registry. Every tool referenced by a profile must
// resolve in tools; a broken reference fails the whole load with an
// IntegrityError naming the missing identifier.
func NewActorRegistry(tools *ToolRegistry, actors ...*ActorProfile) (*ActorRegistry, error) {
	if tools == nil {
		return nil, fmt.Errorf("registry: actor registry requires a tool registry")
	}

	r := &ActorRegistry{
		byID:  make(map[string]*ActorProfile, len(actors)),
		order: make([]string, 0, len(actors)),
	}

	for _, actor := range actors {
		if err := validateActor(actor, tools); err != nil {
			return nil, err
		}
		if _, exists := r.byID[actor.ID]; exists {
			return nil, &DuplicateIDError{Registry: "actors", ID: actor.ID}
		}
		r.byID[actor.ID] = actor
		r.order = append(r.order, actor.ID)
	}

	return r, nil
}

// Lookup returns the profile for the given identifier.
func (r *ActorRegistry) Lookup(id string) (*ActorProfile, bool) {
	actor, ok := r.byID[id]
	return actor, ok
}

// Actors returns all profiles in load order.
func (r *ActorRegistry) Actors() []*ActorProfile {
	out := make([]*ActorProfile, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Len returns the number of registered profiles.
func (r *ActorRegistry) Len() int {
	return len(r.order)
}

func validateTool(tool *ToolSignature) error {
	if tool == nil {
		return fmt.Errorf("registry: nil tool signature")
	}
	if err := validate.Struct(tool); err != nil {
		return asRangeError(tool.ID, err)
	}
	if !tool.Category.IsValid() {
		return &RangeError{ID: tool.ID, Field: "Category", Detail: fmt.Sprintf("unknown category %q", tool.Category)}
	}
	if !tool.Phase.IsValid() {
		return &RangeError{ID: tool.ID, Field: "Phase", Detail: fmt.Sprintf("unknown phase %q", tool.Phase)}
	}
	if !tool.MinTier.IsValid() {
		return &RangeError{ID: tool.ID, Field: "MinTier", Detail: fmt.Sprintf("unknown tier %q", tool.MinTier)}
	}
	return nil
}

func validateActor(actor *ActorProfile, tools *ToolRegistry) error {
	if actor == nil {
		return fmt.Errorf("registry: nil actor profile")
	}
	if err := validate.Struct(actor); err != nil {
		return asRangeError(actor.ID, err)
	}
	for _, phase := range actor.PreferredPhases {
		if !phase.IsValid() {
			return &RangeError{ID: actor.ID, Field: "PreferredPhases", Detail: fmt.Sprintf("unknown phase %q", phase)}
		}
	}
	for _, pref := range actor.PreferredTools {
		if _, ok := tools.Lookup(pref.ToolID); !ok {
			return &IntegrityError{ActorID: actor.ID, ToolID: pref.ToolID}
		}
	}
	return nil
}

// asRangeError converts validator failures into the registry's typed
// RangeError, keeping the first violation's field and bound description.
func asRangeError(id string, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return &RangeError{
			ID:     id,
			Field:  first.StructNamespace(),
			Detail: fmt.Sprintf("failed %q constraint (value %v)", first.Tag(), first.Value()),
		}
	}
	return fmt.Errorf("registry: record %q: %w", id, err)
}
