package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mhasan0505/sanslibyzebin/internal/domain"
	pkgkafka "github.com/mhasan0505/sanslibyzebin/pkg/kafka"
	"github.com/mhasan0505/sanslibyzebin/pkg/logger"
)

// Producer publishes storefront events to Kafka. Every event is keyed by the
// session id so one shopper's events land on one partition in order.
type Producer struct {
	kafka    *pkgkafka.Producer
	currency string
	topics   map[string]string
	logger   *slog.Logger
}

// NewProducer creates a producer. Topics are "<prefix>.cart.events" and
// "<prefix>.wishlist.events".
func NewProducer(kafka *pkgkafka.Producer, topicPrefix, currency string, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:    kafka,
		currency: currency,
		topics: map[string]string{
			AggregateCart:     pkgkafka.Topic(topicPrefix, AggregateCart),
			AggregateWishlist: pkgkafka.Topic(topicPrefix, AggregateWishlist),
		},
		logger: logger,
	}
}

// Topic returns the topic events of the given aggregate are written to.
func (p *Producer) Topic(aggregate string) string {
	return p.topics[aggregate]
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, sessionID string, cart domain.Cart, total int64) error {
	items := make([]CartItemData, len(cart))
	for i, item := range cart {
		items[i] = CartItemData{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Price:     item.Product.Price,
			Size:      item.SelectedSize,
			Color:     item.SelectedColor,
			Quantity:  item.Quantity,
		}
	}

	data := CartUpdatedData{
		SessionID:   sessionID,
		Items:       items,
		ItemCount:   cart.Count(),
		TotalAmount: total,
		Currency:    p.currency,
	}
	if err := p.publish(ctx, TypeCartUpdated, AggregateCart, sessionID, data); err != nil {
		return err
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("session_id", sessionID),
		slog.Int("item_count", data.ItemCount),
	)
	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID string) error {
	return p.publish(ctx, TypeCartCleared, AggregateCart, sessionID, CartClearedData{SessionID: sessionID})
}

// PublishWishlistUpdated publishes a wishlist.updated event.
func (p *Producer) PublishWishlistUpdated(ctx context.Context, sessionID string, wishlist domain.Wishlist) error {
	ids := make([]int, len(wishlist))
	for i, item := range wishlist {
		ids[i] = item.Product.ID
	}
	return p.publish(ctx, TypeWishlistUpdated, AggregateWishlist, sessionID, WishlistUpdatedData{
		SessionID:  sessionID,
		ProductIDs: ids,
		Count:      len(ids),
	})
}

func (p *Producer) publish(ctx context.Context, eventType, aggregate, sessionID string, data any) error {
	ev, err := pkgkafka.NewEvent(eventType, sessionID, aggregate, Source, data,
		pkgkafka.WithCorrelationID(logger.CorrelationIDFromContext(ctx)))
	if err != nil {
		return fmt.Errorf("create %s event: %w", eventType, err)
	}

	if err := p.kafka.Publish(ctx, p.topics[aggregate], ev); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}
	return nil
}
