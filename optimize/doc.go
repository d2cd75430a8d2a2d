// Package optimize builds ordered tool chains for a requested objective
// under caller constraints.
//
// The optimizer treats chain construction as an assignment problem: it
// builds an N×N transition cost matrix over the candidate tools (cost of
// following tool i with tool j, objective-dependent, with self-transitions
// forbidden), solves it exactly with the Hungarian algorithm, and unrolls
// the resulting permutation into a linear visiting order. The chain is
// then trimmed and re-validated against the constraints; an infeasible
// request fails with an UnsatisfiableError naming the violated constraint
// rather than silently returning a partial chain.
//
// The solve is cubic in the candidate count and may be long-running for
// large registries. Optimize honors context cancellation between the
// matrix build and the solve, and a constraint-level time limit is applied
// as a context deadline.
package optimize
