package middleware

import (
	"log/slog"
	"net/http"

	"github.com/srp14/srp/internal/api/response"
)

// Recovery converts a handler panic into a logged INTERNAL_ERROR envelope so
// one bad request cannot take the server down mid-review.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				requestID := GetRequestID(r.Context())
				slog.Error("panic recovered", "error", err, "requestId", requestID)
				response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", requestID)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
