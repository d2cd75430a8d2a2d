// Package detect classifies the current campaign phase from a sliding
// window of tool-usage events.
//
// The detector maps each event's tool to its registry phase affinity and
// takes the majority over the most recent window (five events by default).
// Two overrides trump the majority: three consecutive terminal-phase tools
// lock the verdict to dominate, since escalation cannot reverse, and any
// recent lateral-movement tool forces disable, since lateral movement is a
// strong phase-four signal. An empty window reports the initial phase.
package detect
