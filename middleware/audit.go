package middleware

import (
	"log/slog"
	"net/http"
)

// IngestAudit middleware logs all POST/PUT/DELETE requests
func IngestAudit(logger *slog.Logger, resolver *ClientIPResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Only log mutation operations
			if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodDelete {
				logger.Info("telemetry mutation",
					"method", r.Method,
					"path", r.URL.Path,
					"ip", resolver.ClientIP(r),
					"peer", r.RemoteAddr,
					"user_agent", r.UserAgent(),
					"content_length", r.ContentLength,
				)
			}

			next.ServeHTTP(w, r)
		})
	}
}
