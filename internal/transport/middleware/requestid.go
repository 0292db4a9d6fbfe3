package middleware

import (
	"context"
	"net/http"

	"github.com/scime/ecommerce/pkg/logger"

	"github.com/google/uuid"
)

type traceIDKey struct{}

// RequestID tags every request with a trace id, honoring one supplied by the
// caller via X-Trace-ID. The id is attached to the context logger, stored for
// TraceID, and echoed on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "traceID", traceID)
		ctx = context.WithValue(ctx, traceIDKey{}, traceID)

		w.Header().Set("X-Trace-ID", traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TraceID returns the request's trace id, or "" outside a RequestID chain.
func TraceID(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey{}).(string); ok {
		return id
	}
	return ""
}
