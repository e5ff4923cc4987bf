package wishlist

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

// Provider opens wishlists by session, one request per session at a time.
type Provider struct {
	store     store.Store
	publisher event.Publisher
	now       Clock
	locks     *store.Locks
	logger    *slog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithClock overrides the clock used for AddedAt timestamps.
func WithClock(now Clock) Option {
	return func(p *Provider) { p.now = now }
}

// NewProvider creates a provider. A nil publisher drops events.
func NewProvider(st store.Store, pub event.Publisher, l *slog.Logger, opts ...Option) *Provider {
	if pub == nil {
		pub = event.Noop{}
	}
	p := &Provider{store: st, publisher: pub, locks: store.NewLocks(), logger: l}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Open locks the session and loads its wishlist. The caller must invoke
// release when done.
func (p *Provider) Open(ctx context.Context, session string) (c *Container, release func(), err error) {
	if session == "" {
		return nil, nil, apperrors.InvalidInput("session id is required")
	}

	unlock, err := p.locks.Lock(ctx, store.Key(session, store.WishlistKey))
	if err != nil {
		return nil, nil, fmt.Errorf("lock wishlist: %w", err)
	}

	c, err = Load(ctx, p.store, p.publisher, p.now, session, p.logger)
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

// FromContext returns the wishlist stored by NewContext and panics when
// there is none.
func FromContext(ctx context.Context) *Container {
	c, ok := ctx.Value(contextKey{}).(*Container)
	if !ok {
		panic("wishlist: FromContext called outside a wishlist provider")
	}
	return c
}

// Middleware opens the wishlist of the request's session for the duration
// of the request.
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
