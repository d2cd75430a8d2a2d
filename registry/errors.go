package registry

import "fmt"

// IntegrityError reports a broken reference discovered at load time: an
// actor profile names a tool identifier that does not exist in the tool
// registry. Load fails as a whole; no registry is returned.
type IntegrityError struct {
	// ActorID is the profile carrying the broken reference.
	ActorID string

	// ToolID is the identifier that failed to resolve.
	ToolID string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("registry: actor %q references unknown tool %q", e.ActorID, e.ToolID)
}

// DuplicateIDError reports two records in the same registry sharing an
// identifier.
type DuplicateIDError struct {
	// Registry names which table the duplicate was found in: "tools" or "actors".
	Registry string

	// ID is the duplicated identifier.
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("registry: duplicate identifier %q in %s registry", e.ID, e.Registry)
}

// RangeError reports a numeric or enumeration field outside its declared
// bounds.
type RangeError struct {
	// ID is the record carrying the bad field.
	ID string

	// Field is the offending field name.
	Field string

	// Detail describes the violated bound.
	Detail string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("registry: record %q field %s: %s", e.ID, e.Field, e.Detail)
}
