// Package teth implements an entropy-based tool attribution core for
// defensive campaign analysis: it models how complex each offensive
// tool is to operate, matches observed tool chains against known actor
// profiles, classifies campaign phase from event windows, forecasts
// likely next tools, and assembles objective-optimized tool chains.
//
// # Architecture
//
// The engine composes eight subpackages around two immutable registries:
//
//   - entropy: pure scoring of a tool's five complexity dimensions
//   - registry: validated, read-only tool and actor catalogs
//   - persona: operator tier modeling and tool/operator compatibility
//   - detect: sliding-window campaign phase classification
//   - attribution: chain-to-actor scoring and ranking
//   - predict: next-tool forecasting from an attribution result
//   - optimize: assignment-problem chain construction under constraints
//   - eval: seeded simulation trials with confidence intervals
//
// Registries are immutable after construction, and every analysis
// operation reads only the registries plus caller-supplied data, so one
// Engine may serve any number of concurrent callers without locking.
//
// # Usage
//
// Build an engine from YAML catalogs and analyze an event window:
//
//	engine, err := teth.New(
//	    teth.WithToolsFile("catalog/tools.yaml"),
//	    teth.WithActorsFile("catalog/actors.yaml"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	analysis, err := engine.Analyze(ctx, events)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(analysis.Phase, analysis.Attribution.ActorID)
//
// Build a stealth-optimized chain that must touch the hunt and detect
// phases:
//
//	cons := optimize.NewConstraints().
//	    WithRequiredPhases(taxonomy.PhaseHunt, taxonomy.PhaseDetect).
//	    WithMaxTools(6)
//	chain, err := engine.Optimize(ctx, optimize.ObjectiveStealth, cons, nil)
//
// Check the model's internal consistency with seeded simulations:
//
//	results, err := engine.Validate(ctx, 1000)
//	fmt.Printf("attribution accuracy: %.2f\n",
//	    results[eval.MetricAttributionAccuracy].Value)
package teth
