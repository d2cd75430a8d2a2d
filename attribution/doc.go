// Package attribution ranks known actor profiles against an observed tool
// chain and returns the best match with a confidence value.
//
// Scoring per candidate combines three signals: summed preference weights
// for chain tools in the actor's toolkit, a fixed bonus per tool the actor
// exclusively owns, and closeness of the chain's mean composite entropy to
// the actor's typical entropy distribution. Scores are normalized by chain
// length, and confidence is each candidate's share of the total score, so
// confidences across candidates sum to one when any candidate scores at
// all. Ranking is fully deterministic: float-equal scores break by
// exclusive-tool matches, then lexicographic actor identifier.
//
// The engine reads only immutable registries and caller-supplied chains,
// so independent attributions may run concurrently without locking.
package attribution
