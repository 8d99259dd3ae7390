package middleware

import (
	"log/slog"
	"net/http"

	"github.com/prapeller/readadvance.backend/internal/api/shared"
)

// TraceMiddleware attaches a fresh trace ID to every request context.
// It must run before any handler that logs or writes error responses,
// since both carry the trace ID.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())

		slog.Debug("request started",
			slog.String("trace_id", shared.GetTraceID(ctx)),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
