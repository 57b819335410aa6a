package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var Logger *zap.Logger

func InitLogger() error {
	var err error

	Logger, err = zap.NewProduction()
	if err != nil {
		return err
	}

	return nil
}

func SyncLogger() {
	_ = Logger.Sync()
}

// LoggerWithTrace returns a child logger enriched with trace_id and span_id
// from the active span in ctx.
//
// ctx itself rides along as a zap.Any("context", ctx) field: the otelzap
// bridge detects a context.Context field and passes it to Emit, which stamps
// the native OTel TraceID/SpanID on the exported log record. Without it the
// bridge emits with context.Background() and the exported trace ID is
// all-zeros. The plain string fields keep stdout JSON greppable without an
// OTel-aware tool.
func LoggerWithTrace(ctx context.Context) *zap.Logger {
	span := trace.SpanContextFromContext(ctx)

	if !span.IsValid() {
		return Logger
	}

	return Logger.With(
		zap.Any("context", ctx),
		zap.String("trace_id", span.TraceID().String()),
		zap.String("span_id", span.SpanID().String()),
	)
}
