package idempotency

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Middleware rejects a request whose client-supplied X-Request-ID was
// already processed. Requests without the header pass through (a minted id
// cannot repeat), and store errors do not block the request.
func Middleware(log *slog.Logger, store *Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := r.Header.Get("X-Request-ID")
			if rid == "" {
				next.ServeHTTP(w, r)
				return
			}

			seen, err := store.Seen(r.Context(), store.Key(rid))
			if err != nil {
				log.Error("idempotency check failed", "rid", rid, "err", err)
				next.ServeHTTP(w, r)
				return
			}
			if seen {
				log.Warn("duplicate request", "rid", rid)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusConflict)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"request_id": rid,
					"error":      "duplicate_request",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
