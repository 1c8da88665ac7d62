package middleware

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/Shubham-NM01/doc-uploader/pkg/handlers"
)

// RateLimit returns middleware that admits requests through a shared token
// bucket and rejects the rest with 429. A non-positive rate disables it.
func RateLimit(cfg *RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if cfg.RequestsPerSecond <= 0 {
			return next
		}

		limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				handlers.RespondJSON(w, http.StatusTooManyRequests, map[string]string{
					"error": "rate limit exceeded",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
