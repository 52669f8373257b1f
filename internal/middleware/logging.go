package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"mvc-redirect/internal/common/logging"
	"mvc-redirect/internal/web"
)

// RequestIDHeader carries the request id in and out
const RequestIDHeader = "X-Request-ID"

// RequestID reuses the client's X-Request-ID or generates one, and stores it
// in the request context for loggers and redirect listeners
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logging.ContextWithRequestID(r.Context(), id)))
	})
}

// LoggingMiddleware logs all HTTP requests with method, path, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// The tracked writer captures the status code and is shared with
		// web.Middleware further down the chain, flushes included
		wrapped := web.NewResponseWriter(w)

		next.ServeHTTP(wrapped, r)
		status := wrapped.StatusCode()

		duration := time.Since(start)

		fields := []logging.Field{
			{Key: "method", Value: r.Method},
			{Key: "path", Value: r.URL.Path},
			{Key: "status", Value: status},
			{Key: "duration_ms", Value: duration.Milliseconds()},
			{Key: "remote_addr", Value: r.RemoteAddr},
		}

		if r.URL.RawQuery != "" {
			fields = append(fields, logging.Field{Key: "query", Value: r.URL.RawQuery})
		}

		if loc := wrapped.Header().Get("Location"); loc != "" {
			fields = append(fields, logging.Field{Key: "location", Value: loc})
		}

		if ua := r.Header.Get("User-Agent"); ua != "" {
			fields = append(fields, logging.Field{Key: "user_agent", Value: ua})
		}

		logger := logging.WithContext(r.Context())
		if err := wrapped.WriteErr(); err != nil {
			logger.Warn("Response write failed", append(fields, logging.Field{Key: "error", Value: err.Error()})...)
		}

		if status >= 500 {
			logger.Error("HTTP request completed", nil, fields...)
		} else if status >= 400 {
			logger.Warn("HTTP request completed", fields...)
		} else {
			logger.Info("HTTP request completed", fields...)
		}
	})
}
