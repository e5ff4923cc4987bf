// Package wishlist owns a shopper's saved products. It mirrors the cart
// package: one Container per session, persisted after every change.
package wishlist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mhasan0505/sanslibyzebin/internal/domain"
	"github.com/mhasan0505/sanslibyzebin/internal/event"
	"github.com/mhasan0505/sanslibyzebin/internal/store"
	"github.com/mhasan0505/sanslibyzebin/pkg/logger"
	"github.com/mhasan0505/sanslibyzebin/pkg/tracing"
)

var tracer = tracing.Tracer("wishlist")

// Clock returns the current time. Tests substitute a fixed one.
type Clock func() time.Time

// Container is one session's wishlist. It is safe for concurrent use.
type Container struct {
	session   string
	key       string
	store     store.Store
	publisher event.Publisher
	now       Clock
	logger    *slog.Logger

	mu    sync.RWMutex
	items domain.Wishlist
}

// Load reads the session's wishlist from st. A missing document is an empty
// wishlist. A document that no longer decodes is logged and treated as empty
// so the next write replaces it. Store failures are returned.
func Load(ctx context.Context, st store.Store, pub event.Publisher, now Clock, session string, l *slog.Logger) (*Container, error) {
	if now == nil {
		now = time.Now
	}
	c := &Container{
		session:   session,
		key:       store.Key(session, store.WishlistKey),
		store:     st,
		publisher: pub,
		now:       now,
		logger:    l,
	}

	var items domain.Wishlist
	if _, err := store.LoadJSON(ctx, st, c.key, &items); err != nil {
		if !errors.Is(err, store.ErrCorrupt) {
			return nil, fmt.Errorf("load wishlist: %w", err)
		}
		c.log(ctx).WarnContext(ctx, "discarding unreadable wishlist", slog.String("error", err.Error()))
		items = nil
	}
	c.items = items
	return c, nil
}

// SessionID returns the session the wishlist belongs to.
func (c *Container) SessionID() string { return c.session }

// Items returns a copy of the saved products, oldest first.
func (c *Container) Items() domain.Wishlist {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(domain.Wishlist, len(c.items))
	copy(out, c.items)
	return out
}

// Contains reports whether productID is saved.
func (c *Container) Contains(productID int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items.Contains(productID)
}

// Count is the number of saved products.
func (c *Container) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items.Count()
}

// Add saves product. Adding a product that is already saved changes
// nothing and reports false.
func (c *Container) Add(ctx context.Context, product domain.Product) (added bool, err error) {
	ctx, span := c.startSpan(ctx, "wishlist.Add", attribute.Int("product.id", product.ID))
	defer func() { tracing.RecordError(span, err); span.End() }()

	return c.mutate(ctx, func(items domain.Wishlist) (domain.Wishlist, bool) {
		return items.Add(product, c.now().UTC())
	})
}

// Remove drops productID and reports whether it was saved.
func (c *Container) Remove(ctx context.Context, productID int) (removed bool, err error) {
	ctx, span := c.startSpan(ctx, "wishlist.Remove", attribute.Int("product.id", productID))
	defer func() { tracing.RecordError(span, err); span.End() }()

	return c.mutate(ctx, func(items domain.Wishlist) (domain.Wishlist, bool) {
		return items.Remove(productID)
	})
}

// Toggle removes product when saved and saves it otherwise, returning
// whether it is saved afterwards.
func (c *Container) Toggle(ctx context.Context, product domain.Product) (saved bool, err error) {
	ctx, span := c.startSpan(ctx, "wishlist.Toggle", attribute.Int("product.id", product.ID))
	defer func() { tracing.RecordError(span, err); span.End() }()

	_, err = c.mutate(ctx, func(items domain.Wishlist) (domain.Wishlist, bool) {
		if items.Contains(product.ID) {
			saved = false
			return items.Remove(product.ID)
		}
		saved = true
		return items.Add(product, c.now().UTC())
	})
	return saved, err
}

// Clear removes every saved product.
func (c *Container) Clear(ctx context.Context) (err error) {
	ctx, span := c.startSpan(ctx, "wishlist.Clear")
	defer func() { tracing.RecordError(span, err); span.End() }()

	_, err = c.mutate(ctx, func(items domain.Wishlist) (domain.Wishlist, bool) {
		return domain.Wishlist{}, len(items) > 0
	})
	return err
}

func (c *Container) mutate(ctx context.Context, fn func(domain.Wishlist) (domain.Wishlist, bool)) (bool, error) {
	c.mu.Lock()
	next, changed := fn(c.items)
	if !changed {
		c.mu.Unlock()
		return false, nil
	}
	if err := store.SaveJSON(ctx, c.store, c.key, next); err != nil {
		c.mu.Unlock()
		return false, fmt.Errorf("save wishlist: %w", err)
	}
	c.items = next
	c.mu.Unlock()

	if err := c.publisher.PublishWishlistUpdated(ctx, c.session, next); err != nil {
		c.log(ctx).WarnContext(ctx, "failed to publish wishlist.updated event", slog.String("error", err.Error()))
	}
	return true, nil
}

func (c *Container) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, tracing.SessionAttr(c.session))
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (c *Container) log(ctx context.Context) *slog.Logger {
	if l := logger.FromContext(ctx); l != slog.Default() {
		return l
	}
	return logger.WithContext(ctx, c.logger)
}
