// Package eval runs seeded simulation trials against the attribution,
// entropy, phase-detection, and optimization components and reports
// self-consistency metrics with confidence intervals.
//
// Trials are independent: each one derives its own generator from the
// master seed and the trial index, so results are identical whether the
// trials run sequentially or in parallel. The registries are never
// mutated; a Runner can share them with live request paths.
package eval
