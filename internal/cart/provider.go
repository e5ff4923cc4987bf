package cart

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mhasan0505/sanslibyzebin/internal/event"
	"github.com/mhasan0505/sanslibyzebin/internal/store"
	apperrors "github.com/mhasan0505/sanslibyzebin/pkg/errors"
	"github.com/mhasan0505/sanslibyzebin/pkg/httputil"
	"github.com/mhasan0505/sanslibyzebin/pkg/logger"
)

// Provider opens carts by session. Requests of the same session are
// serialized so a read-modify-write on one cart never interleaves.
type Provider struct {
	store     store.Store
	publisher event.Publisher
	locks     *store.Locks
	logger    *slog.Logger
}

// NewProvider creates a provider. A nil publisher drops events.
func NewProvider(st store.Store, pub event.Publisher, l *slog.Logger) *Provider {
	if pub == nil {
		pub = event.Noop{}
	}
	return &Provider{store: st, publisher: pub, locks: store.NewLocks(), logger: l}
}

// Open locks the session and loads its cart. The caller must invoke release
// when done with the container.
func (p *Provider) Open(ctx context.Context, session string) (c *Container, release func(), err error) {
	if session == "" {
		return nil, nil, apperrors.InvalidInput("session id is required")
	}

	unlock, err := p.locks.Lock(ctx, store.Key(session, store.CartKey))
	if err != nil {
		return nil, nil, fmt.Errorf("lock cart: %w", err)
	}

	c, err = Load(ctx, p.store, p.publisher, session, p.logger)
	if err != nil {
		unlock()
		return nil, nil, err
	}
	return c, unlock, nil
}

type contextKey struct{}

// NewContext returns a context carrying c.
func NewContext(ctx context.Context, c *Container) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the cart stored by NewContext. Calling it outside a
// cart provider is a programming error and panics.
func FromContext(ctx context.Context) *Container {
	c, ok := ctx.Value(contextKey{}).(*Container)
	if !ok {
		panic("cart: FromContext called outside a cart provider")
	}
	return c
}

// Middleware opens the cart of the request's session for the duration of
// the request. It must be mounted after the Session middleware.
func Middleware(p *Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, release, err := p.Open(r.Context(), logger.SessionIDFromContext(r.Context()))
			if err != nil {
				httputil.WriteError(w, r, err, p.logger)
				return
			}
			defer release()

			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), c)))
		})
	}
}
