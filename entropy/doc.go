// Package entropy implements the composite complexity model for tool
// signatures.
//
// A tool's operational complexity is described by five raw dimensions
// (branching paths, cognitive load, variability, operational risk, and
// feedback clarity). Score folds them into one scalar plus an uncertainty
// band. The function is pure and deterministic: identical dimensions always
// produce bit-identical output, so scores are safe to compute on demand
// and never need caching or locking.
//
// Range validation is the registry loader's job; Score assumes dimensions
// already passed it.
package entropy
