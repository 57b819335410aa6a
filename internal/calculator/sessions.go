package calculator

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"deskcalc/internal/engine"
	"deskcalc/internal/evaluate"
	"deskcalc/internal/handlers"
	"deskcalc/internal/observability"
	"deskcalc/internal/session"
)

// ---------------------------------------------------------------------------
// Handlers — stateful calculator sessions
// ---------------------------------------------------------------------------

// SessionHandlers serves the stateful calculator sessions owned by one
// session manager.
type SessionHandlers struct {
	sessions *session.Manager
}

// NewSessionHandlers wires handlers onto the given manager.
func NewSessionHandlers(m *session.Manager) *SessionHandlers {
	return &SessionHandlers{sessions: m}
}

// lookup resolves the sessionID URL parameter, answering 404 when the
// session does not exist.
func (h *SessionHandlers) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		handlers.WriteError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

// Create handles POST /calculator/sessions
func (h *SessionHandlers) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "calculator.session.create")
	defer span.End()

	sess := h.sessions.Create()
	sessionsGauge.Add(ctx, 1)

	span.SetAttributes(attribute.String("calculator.session.id", sess.ID()))
	span.SetStatus(codes.Ok, "")

	logger.Info("session created",
		zap.String("session_id", sess.ID()),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusCreated, sess.Snapshot())
}

// Get handles GET /calculator/sessions/{sessionID}
func (h *SessionHandlers) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	handlers.WriteJSON(w, http.StatusOK, sess.Snapshot())
}

// Delete handles DELETE /calculator/sessions/{sessionID}
func (h *SessionHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "sessionID")

	if !h.sessions.Delete(id) {
		handlers.WriteError(w, http.StatusNotFound, "session not found")
		return
	}
	sessionsGauge.Add(ctx, -1)

	observability.LoggerWithTrace(ctx).Info("session deleted",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	w.WriteHeader(http.StatusNoContent)
}

// Command handles POST /calculator/sessions/{sessionID}/commands — one
// logical keypad command, dispatched synchronously. The response is the
// settled snapshot.
func (h *SessionHandlers) Command(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.session.command",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "command", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	cmd, err := parseCommand(req)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "command", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	start := time.Now()
	snap := sess.Dispatch(cmd)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	attrs := metric.WithAttributes(attribute.String("command", string(cmd.Kind)))
	commandCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)

	span.SetAttributes(
		attribute.String("calculator.session.id", sess.ID()),
		attribute.String("calculator.command", string(cmd.Kind)),
		attribute.String("calculator.display", snap.Display),
	)
	span.SetStatus(codes.Ok, "")

	logger.Info("session command dispatched",
		zap.String("session_id", sess.ID()),
		zap.String("command", string(cmd.Kind)),
		zap.String("display", snap.Display),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, snap)
}

// Keys handles POST /calculator/sessions/{sessionID}/keys — feeds raw
// keyboard keys through the keyboard mapping, one child span per keystroke.
// The whole sequence is validated up front, so an unmapped key rejects the
// request without leaving the session half-updated.
func (h *SessionHandlers) Keys(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.session.keys",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req KeysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "keys", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	keys := req.Keys
	if req.Key != "" {
		if len(keys) > 0 {
			observability.RecordError(ctx, span, logger, errorCounter, "keys", "set either key or keys, not both",
				fmt.Errorf("key %q alongside %d keys", req.Key, len(keys)), http.StatusBadRequest, w)
			return
		}
		keys = []string{req.Key}
	}
	if len(keys) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, "keys", "no keys provided",
			fmt.Errorf("empty key sequence"), http.StatusBadRequest, w)
		return
	}

	cmds := make([]engine.Command, len(keys))
	for i, k := range keys {
		cmd, mapped := engine.CommandForKey(k)
		if !mapped {
			observability.RecordError(ctx, span, logger, errorCounter, "keys", fmt.Sprintf("unmapped key %q", k),
				fmt.Errorf("key %d of %d has no calculator command", i+1, len(keys)), http.StatusBadRequest, w)
			return
		}
		cmds[i] = cmd
	}

	span.SetAttributes(
		attribute.String("calculator.session.id", sess.ID()),
		attribute.Int("calculator.keys.count", len(keys)),
	)

	var snap session.Snapshot
	for i, cmd := range cmds {
		_, keySpan := tracer.Start(ctx, fmt.Sprintf("calculator.session.key.%d.%s", i, cmd.Kind),
			trace.WithAttributes(
				attribute.Int("calculator.key.index", i),
				attribute.String("calculator.key", keys[i]),
				attribute.String("calculator.command", string(cmd.Kind)),
			),
		)

		start := time.Now()
		snap = sess.Dispatch(cmd)
		elapsed := float64(time.Since(start).Microseconds()) / 1000.0

		attrs := metric.WithAttributes(attribute.String("command", string(cmd.Kind)))
		commandCounter.Add(ctx, 1, attrs)
		opsHistogram.Record(ctx, elapsed, attrs)

		keySpan.SetAttributes(attribute.String("calculator.display", snap.Display))
		keySpan.SetStatus(codes.Ok, "")
		keySpan.End()
	}

	span.AddEvent("keys.complete", trace.WithAttributes(
		attribute.String("calculator.display", snap.Display),
		attribute.Int("calculator.keys.count", len(keys)),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("session keys dispatched",
		zap.String("session_id", sess.ID()),
		zap.Int("keys", len(keys)),
		zap.String("display", snap.Display),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, snap)
}

// History handles GET /calculator/sessions/{sessionID}/history
func (h *SessionHandlers) History(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	handlers.WriteJSON(w, http.StatusOK, HistoryResponse{Records: sess.History()})
}

// ClearHistory handles DELETE /calculator/sessions/{sessionID}/history
func (h *SessionHandlers) ClearHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	sess.ClearHistory()

	observability.LoggerWithTrace(ctx).Info("session history cleared",
		zap.String("session_id", sess.ID()),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	w.WriteHeader(http.StatusNoContent)
}

// parseCommand translates a CommandRequest into an engine command.
func parseCommand(req CommandRequest) (engine.Command, error) {
	switch req.Command {
	case "digit":
		if len(req.Digit) != 1 || req.Digit[0] < '0' || req.Digit[0] > '9' {
			return engine.Command{}, fmt.Errorf("digit must be a single character 0-9, got %q", req.Digit)
		}
		return engine.Digit(req.Digit[0]), nil
	case "decimal":
		return engine.Decimal(), nil
	case "operator":
		op := evaluate.Operator(req.Operator)
		if !op.Valid() {
			return engine.Command{}, fmt.Errorf("unknown operator %q", req.Operator)
		}
		return engine.Operator(op), nil
	case "equals":
		return engine.Equals(), nil
	case "clear":
		return engine.Clear(), nil
	case "delete":
		return engine.Delete(), nil
	case "sign":
		return engine.Sign(), nil
	case "percent":
		return engine.Percent(), nil
	}
	return engine.Command{}, fmt.Errorf("unknown command %q", req.Command)
}
