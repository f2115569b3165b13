package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "healthmate-api"

// AnalysisMetrics records vitals-analysis outcomes. Instruments bind to the
// global meter provider, which is a no-op until Initialize installs one.
type AnalysisMetrics struct {
	warnings metric.Int64Counter
}

// NewAnalysisMetrics creates the analysis instruments
func NewAnalysisMetrics() (*AnalysisMetrics, error) {
	warnings, err := otel.Meter(meterName).Int64Counter(
		"healthmate.analysis.warnings",
		metric.WithDescription("Warnings produced by health record analysis"),
		metric.WithUnit("{warning}"),
	)
	if err != nil {
		return nil, err
	}
	return &AnalysisMetrics{warnings: warnings}, nil
}

// RecordWarning counts one warning of the given type
func (m *AnalysisMetrics) RecordWarning(ctx context.Context, warningType string) {
	if m == nil {
		return
	}
	m.warnings.Add(ctx, 1, metric.WithAttributes(attribute.String("warning.type", warningType)))
}
