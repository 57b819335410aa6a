package observability

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// RequestIDKey carries the per-request ID through request contexts.
const RequestIDKey contextKey = "request_id"

// RequestIDHeader is the response header every request is tagged with.
// Request IDs live here, never in JSON bodies.
const RequestIDHeader = "X-Request-ID"

// NewRequestID mints a fresh request identifier.
func NewRequestID() string {
	return uuid.New().String()
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestIDFromContext returns the request ID, or "" when the context carries
// none.
func RequestIDFromContext(ctx context.Context) string {
	id, ok := ctx.Value(RequestIDKey).(string)
	if !ok {
		return ""
	}
	return id
}
