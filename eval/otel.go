package eval

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// otelMetrics holds the OpenTelemetry instruments for the validation
// runner. They are created once during WithMeter configuration and
// reused across runs.
type otelMetrics struct {
	// metricGauge-style histogram for final metric values (0.0 to 1.0
	// for accuracy metrics, unbounded for stability and improvement)
	valueHistogram metric.Float64Histogram

	// trialCounter increments per completed simulation trial
	trialCounter metric.Int64Counter
}

func newOTelMetrics(meter metric.Meter) (*otelMetrics, error) {
	m := &otelMetrics{}
	var err error

	m.valueHistogram, err = meter.Float64Histogram(
		"validate.metric",
		metric.WithDescription("Final value of each validation metric"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create metric histogram: %w", err)
	}

	m.trialCounter, err = meter.Int64Counter(
		"validate.trials",
		metric.WithDescription("Number of simulation trials completed"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create trial counter: %w", err)
	}

	return m, nil
}

// record publishes the aggregated metrics. Called once per Validate run;
// silently a no-op when no meter is configured.
func (m *otelMetrics) record(ctx context.Context, results map[string]ValidationResult, trials int) {
	if m == nil {
		return
	}
	for name, res := range results {
		m.valueHistogram.Record(ctx, res.Value,
			metric.WithAttributes(attribute.String("metric", name)),
		)
	}
	m.trialCounter.Add(ctx, int64(trials))
}
