// Package taxonomy defines the closed enumerations shared by every TETH
// component: campaign phases, tool categories, and operator tiers.
//
// All three enumerations are string-typed for readable YAML and JSON, but
// closed: every consumer that switches over them handles the full value set,
// and registry loading rejects anything outside it. Phases and tiers are
// ordered; use Index for comparisons and Next for phase progression.
package taxonomy
