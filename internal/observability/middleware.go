package observability

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// quietPaths are probe and scrape endpoints that would drown out real
// traffic; they are neither traced nor access-logged.
var quietPaths = map[string]struct{}{
	"/metrics": {},
	"/health":  {},
}

func shouldObserveRequest(r *http.Request) bool {
	_, quiet := quietPaths[r.URL.Path]
	return !quiet
}

func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		requestID := NewRequestID()
		ctx := ContextWithRequestID(r.Context(), requestID)

		w.Header().Set(RequestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func LoggingMiddleware(next http.Handler) http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		if !shouldObserveRequest(r) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()

		ctx := r.Context()
		logger := LoggerWithTrace(ctx)

		next.ServeHTTP(w, r)

		logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestIDFromContext(ctx)),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func TracingMiddleware(next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, "http_request", otelhttp.WithFilter(shouldObserveRequest))
}
