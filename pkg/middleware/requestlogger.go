package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mhasan0505/sanslibyzebin/pkg/logger"
)

// RequestLogger stores a logger tagged with the request's correlation id,
// session id and trace ids in context, for logger.FromContext downstream.
// Mount it after RequestLogging, Session and Tracing so every id is known.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			next.ServeHTTP(w, r.WithContext(logger.NewContext(ctx, logger.WithContext(ctx, base))))
		})
	}
}
