package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mhasan0505/sanslibyzebin/pkg/logger"
)

const (
	// SessionCookieName is the cookie carrying the shopper's session id.
	SessionCookieName = "sansli_session"
	// SessionHeader lets non-browser clients supply the session id explicitly.
	SessionHeader = "X-Session-ID"
)

// SessionConfig controls how the session cookie is issued.
type SessionConfig struct {
	MaxAge time.Duration
	Secure bool
}

// Session resolves the shopper's session id from the X-Session-ID header or
// the session cookie, minting a new one when neither carries a valid UUID.
// The id is echoed back in both the cookie and the response header and is
// stored in context for SessionIDFromContext.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := sessionFromRequest(r)
			if !ok {
				id = uuid.NewString()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(cfg.MaxAge.Seconds()),
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})
			w.Header().Set(SessionHeader, id)

			ctx := logger.WithSessionID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFromRequest(r *http.Request) (string, bool) {
	if v := r.Header.Get(SessionHeader); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			return id.String(), true
		}
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String(), true
		}
	}
	return "", false
}

// SessionIDFromContext returns the session id set by the Session middleware.
func SessionIDFromContext(ctx context.Context) string {
	return logger.SessionIDFromContext(ctx)
}
