// Package registry holds the static knowledge tables the engine reads:
// tool signatures and actor behavioral profiles.
//
// Registries are constructed once, validated eagerly, and never mutated
// afterward, so any number of goroutines may read them concurrently without
// locking. Construction is the only place errors can occur: numeric fields
// are range-checked, enumeration fields must parse, duplicate identifiers
// are rejected, and every tool an actor profile references must resolve.
// A registry that fails validation is never returned, partially built or
// otherwise.
//
// The loaders parse YAML from any io.Reader; callers that already hold
// parsed records (tests, synthetic data) can use NewToolRegistry and
// NewActorRegistry directly and get the same validation.
package registry
