package calculator

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metric instruments — initialized once via InitMetrics().
var (
	opsCounter     metric.Int64Counter
	opsHistogram   metric.Float64Histogram
	errorCounter   metric.Int64Counter
	resultGauge    metric.Float64Gauge
	commandCounter metric.Int64Counter
	sessionsGauge  metric.Int64UpDownCounter
	watchersGauge  metric.Int64UpDownCounter
)

// InitMetrics registers the calculator's OTel metric instruments. Call this
// once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("calculator")

	var err error

	opsCounter, err = meter.Int64Counter("calculator.operations.total",
		metric.WithDescription("Total number of stateless calculator operations performed"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return fmt.Errorf("creating ops counter: %w", err)
	}

	opsHistogram, err = meter.Float64Histogram("calculator.operation.duration",
		metric.WithDescription("Duration of calculator operations and command dispatches in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10),
	)
	if err != nil {
		return fmt.Errorf("creating ops histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Total number of rejected calculator requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	resultGauge, err = meter.Float64Gauge("calculator.last_result",
		metric.WithDescription("Numeric value of the last stateless operation result"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating result gauge: %w", err)
	}

	commandCounter, err = meter.Int64Counter("calculator.commands.total",
		metric.WithDescription("Total number of session commands dispatched"),
		metric.WithUnit("{command}"),
	)
	if err != nil {
		return fmt.Errorf("creating command counter: %w", err)
	}

	sessionsGauge, err = meter.Int64UpDownCounter("calculator.sessions.active",
		metric.WithDescription("Number of live calculator sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return fmt.Errorf("creating sessions gauge: %w", err)
	}

	watchersGauge, err = meter.Int64UpDownCounter("calculator.watchers.active",
		metric.WithDescription("Number of connected watch streams"),
		metric.WithUnit("{watcher}"),
	)
	if err != nil {
		return fmt.Errorf("creating watchers gauge: %w", err)
	}

	return nil
}
