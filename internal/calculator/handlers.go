package calculator

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"deskcalc/internal/evaluate"
	"deskcalc/internal/handlers"
	"deskcalc/internal/numfmt"
	"deskcalc/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// ---------------------------------------------------------------------------
// Handlers — stateless binary operations
// ---------------------------------------------------------------------------

// Add handles POST /calculator/add
func Add(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, evaluate.Add)
}

// Subtract handles POST /calculator/subtract
func Subtract(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, evaluate.Subtract)
}

// Multiply handles POST /calculator/multiply
func Multiply(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, evaluate.Multiply)
}

// Divide handles POST /calculator/divide. Division by zero is not an error
// here: the arithmetic contract clamps non-finite results to "0".
func Divide(w http.ResponseWriter, r *http.Request) {
	handleBinaryOp(w, r, evaluate.Divide)
}

// handleBinaryOp is the shared implementation for the stateless binary
// endpoints. Operands arrive and results leave as operand strings, the same
// clamp-and-round arithmetic the session engine uses.
func handleBinaryOp(w http.ResponseWriter, r *http.Request, op evaluate.Operator) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)
	opName := string(op)

	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.%s", opName),
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req CalcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if err := validOperands(req.A, req.B); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid operands", err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(
		attribute.String("calculator.operand.a", req.A),
		attribute.String("calculator.operand.b", req.B),
	)

	start := time.Now()
	result := evaluate.Evaluate(req.A, req.B, op)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	attrs := metric.WithAttributes(attribute.String("operation", opName))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	resultGauge.Record(ctx, numfmt.ParseOperand(result), attrs)

	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.String("result", result),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(attribute.String("calculator.result", result))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator operation completed",
		zap.String("operation", opName),
		zap.String("a", req.A),
		zap.String("b", req.B),
		zap.String("result", result),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, CalcResponse{
		Operation: opName,
		A:         req.A,
		B:         req.B,
		Result:    result,
	})
}

// validOperands rejects operands that do not parse to finite numbers. The
// engine would clamp these to "0" anyway; rejecting at the HTTP boundary
// gives API callers a diagnostic instead of a silent zero.
func validOperands(a, b string) error {
	for _, operand := range []string{a, b} {
		v := numfmt.ParseOperand(operand)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("operand %q is not a finite number", operand)
		}
	}
	return nil
}
