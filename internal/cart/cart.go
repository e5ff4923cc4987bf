// Package cart owns a shopper's shopping cart. A Container holds one
// session's lines in memory, persists the whole collection after every
// mutation and announces the new state on the event bus.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mhasan0505/sanslibyzebin/internal/catalog"
	"github.com/mhasan0505/sanslibyzebin/internal/domain"
	"github.com/mhasan0505/sanslibyzebin/internal/event"
	"github.com/mhasan0505/sanslibyzebin/internal/store"
	apperrors "github.com/mhasan0505/sanslibyzebin/pkg/errors"
	"github.com/mhasan0505/sanslibyzebin/pkg/logger"
	"github.com/mhasan0505/sanslibyzebin/pkg/tracing"
)

var tracer = tracing.Tracer("cart")

// Summary is the computed view of a cart.
type Summary struct {
	Items domain.Cart
	Count int
	Total int64
	// UnpricedLines counts lines whose price did not parse and therefore
	// contributed nothing to Total.
	UnpricedLines int
}

// Container is one session's cart. It is safe for concurrent use.
type Container struct {
	session   string
	key       string
	store     store.Store
	publisher event.Publisher
	logger    *slog.Logger

	mu    sync.Mutex
	items domain.Cart
	// summary caches the priced view of items until the next mutation.
	summary *Summary
}

// Load reads the session's cart from st. A missing document is an empty
// cart. A document that no longer decodes is logged and treated as empty so
// the next write replaces it.
func Load(ctx context.Context, st store.Store, pub event.Publisher, session string, l *slog.Logger) (*Container, error) {
	c := &Container{
		session:   session,
		key:       store.Key(session, store.CartKey),
		store:     st,
		publisher: pub,
		logger:    l,
	}

	var items domain.Cart
	if _, err := store.LoadJSON(ctx, st, c.key, &items); err != nil {
		if !errors.Is(err, store.ErrCorrupt) {
			return nil, fmt.Errorf("load cart: %w", err)
		}
		c.log(ctx).WarnContext(ctx, "discarding unreadable cart", slog.String("error", err.Error()))
		items = nil
	}
	c.items = items
	return c, nil
}

// SessionID returns the session the cart belongs to.
func (c *Container) SessionID() string { return c.session }

// Items returns a copy of the cart lines in insertion order.
func (c *Container) Items() domain.Cart {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clone(c.items)
}

func clone(items domain.Cart) domain.Cart {
	out := make(domain.Cart, len(items))
	copy(out, items)
	return out
}

// Count is the total number of units across all lines.
func (c *Container) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Count()
}

// Total sums price times quantity over every line. Prices that do not parse
// count as zero.
func (c *Container) Total(ctx context.Context) int64 {
	return c.Summary(ctx).Total
}

// Summary computes count and total in one pass. The result is reused until
// the cart changes, so an unparseable price is reported once per state.
func (c *Container) Summary(ctx context.Context) Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.summary == nil {
		s := summarize(ctx, c.items)
		c.summary = &s
	}
	s := *c.summary
	s.Items = clone(s.Items)
	return s
}

func summarize(ctx context.Context, items domain.Cart) Summary {
	s := Summary{Items: clone(items), Count: items.Count()}
	for _, item := range items {
		price, err := catalog.ParsePriceStrict(item.Product.Price)
		if err != nil {
			s.UnpricedLines++
			price = catalog.ParsePriceSafe(ctx, item.Product.Price, 0)
		}
		s.Total += price * int64(item.Quantity)
	}
	return s
}

// Add puts one unit of product in the cart, merging with the line of the
// same size and color. Size and color must be among the product's options.
func (c *Container) Add(ctx context.Context, product domain.Product, size, color string) (err error) {
	ctx, span := c.startSpan(ctx, "cart.Add", attribute.Int("product.id", product.ID))
	defer func() { tracing.RecordError(span, err); span.End() }()

	if !product.HasSize(size) {
		return apperrors.InvalidInput(fmt.Sprintf("size %q is not available for product %d", size, product.ID))
	}
	if !product.HasColor(color) {
		return apperrors.InvalidInput(fmt.Sprintf("color %q is not available for product %d", color, product.ID))
	}

	return c.mutate(ctx, func(items domain.Cart) (domain.Cart, error) {
		return items.Add(product, size, color), nil
	})
}

// Remove deletes the line with the given identity. Removing a line that is
// not in the cart is a no-op.
func (c *Container) Remove(ctx context.Context, productID int, size, color string) (err error) {
	ctx, span := c.startSpan(ctx, "cart.Remove", attribute.Int("product.id", productID))
	defer func() { tracing.RecordError(span, err); span.End() }()

	return c.mutate(ctx, func(items domain.Cart) (domain.Cart, error) {
		if _, ok := items.Line(productID, size, color); !ok {
			return nil, nil
		}
		return items.Remove(productID, size, color), nil
	})
}

// UpdateQuantity overwrites the quantity of every line of productID. A
// quantity of zero or below removes them. Unknown products are a no-op.
func (c *Container) UpdateQuantity(ctx context.Context, productID, quantity int) (err error) {
	ctx, span := c.startSpan(ctx, "cart.UpdateQuantity",
		attribute.Int("product.id", productID),
		attribute.Int("quantity", quantity),
	)
	defer func() { tracing.RecordError(span, err); span.End() }()

	return c.mutate(ctx, func(items domain.Cart) (domain.Cart, error) {
		if !items.Has(productID) {
			return nil, nil
		}
		return items.SetQuantity(productID, quantity), nil
	})
}

// Clear empties the cart.
func (c *Container) Clear(ctx context.Context) (err error) {
	ctx, span := c.startSpan(ctx, "cart.Clear")
	defer func() { tracing.RecordError(span, err); span.End() }()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := store.SaveJSON(ctx, c.store, c.key, domain.Cart{}); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	c.items = nil
	c.summary = nil

	if err := c.publisher.PublishCartCleared(ctx, c.session); err != nil {
		c.log(ctx).WarnContext(ctx, "failed to publish cart.cleared event", slog.String("error", err.Error()))
	}
	return nil
}

// mutate applies fn to the current lines. A nil result with a nil error
// means nothing changed. The new collection replaces the stored document
// before it becomes visible.
func (c *Container) mutate(ctx context.Context, fn func(domain.Cart) (domain.Cart, error)) error {
	c.mu.Lock()
	next, err := fn(c.items)
	if err != nil || next == nil {
		c.mu.Unlock()
		return err
	}
	if err := store.SaveJSON(ctx, c.store, c.key, next); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("save cart: %w", err)
	}
	c.items = next
	s := summarize(ctx, next)
	c.summary = &s
	c.mu.Unlock()

	if err := c.publisher.PublishCartUpdated(ctx, c.session, next, s.Total); err != nil {
		c.log(ctx).WarnContext(ctx, "failed to publish cart.updated event", slog.String("error", err.Error()))
	}
	return nil
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
