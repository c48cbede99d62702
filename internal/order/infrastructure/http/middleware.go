package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type ridKey struct{}

// RequestID returns the correlation id assigned to this request.
func RequestID(ctx context.Context) string {
	rid, _ := ctx.Value(ridKey{}).(string)
	return rid
}

// RequestLogger threads the X-Request-ID correlation id (minting one when
// the client sent none) and logs request start and end with the duration.
func RequestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := r.Header.Get("X-Request-ID")
			if rid == "" {
				rid = uuid.NewString()
			}
			ctx := context.WithValue(r.Context(), ridKey{}, rid)
			w.Header().Set("X-Request-ID", rid)

			log.Info("request start", "rid", rid, "method", r.Method, "path", r.URL.Path)
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))
			log.Info("request end",
				"rid", rid, "status", ww.Status(), "duration_ms", time.Since(start).Milliseconds())
		})
	}
}
