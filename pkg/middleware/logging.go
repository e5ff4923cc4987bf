package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mhasan0505/sanslibyzebin/pkg/logger"
)

// CorrelationHeader carries the request id between client and server.
const CorrelationHeader = "X-Correlation-ID"

// RequestLogging writes one access-log line per request. The correlation id
// is taken from X-Correlation-ID or minted, stored in context and echoed in
// the response. 5xx responses log at error and 4xx at warn.
func RequestLogging(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			id := r.Header.Get(CorrelationHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(CorrelationHeader, id)
			r = r.WithContext(logger.WithCorrelationID(r.Context(), id))

			ww := wrap(w, r)
			next.ServeHTTP(ww, r)

			status := statusOf(ww)
			l.LogAttrs(r.Context(), accessLevel(status), "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("route", routePattern(r)),
				slog.Int("status", status),
				slog.Duration("duration", time.Since(start)),
				slog.Int("bytes", ww.BytesWritten()),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.UserAgent()),
				slog.String("correlation_id", id),
			)
		})
	}
}

func accessLevel(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	}
	return slog.LevelInfo
}
