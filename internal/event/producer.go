package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/acs027/eshop-backend/internal/domain"
	pkgkafka "github.com/acs027/eshop-backend/pkg/kafka"
	"github.com/acs027/eshop-backend/pkg/logger"
)

// Kafka topics for storefront domain events.
const (
	TopicCartEntryAdded   = "eshop.cart.entry-added"
	TopicCartEntryRemoved = "eshop.cart.entry-removed"
	TopicCartCleared      = "eshop.cart.cleared"
	TopicReviewWritten    = "eshop.review.written"
)

// Aggregate types.
const (
	AggregateTypeCart   = "cart"
	AggregateTypeReview = "review"
)

// Source identifier for events produced by this service.
const SourceEshopBackend = "eshop-backend"

// CartEntryAddedData is the payload for a cart entry-added event.
type CartEntryAddedData struct {
	CartID       int64  `json:"cart_id"`
	Owner        string `json:"owner"`
	Name         string `json:"name"`
	Count        int    `json:"count"`
	Price        int64  `json:"price"`
	PriceDisplay string `json:"price_display"`
}

// CartEntryRemovedData is the payload for a cart entry-removed event.
type CartEntryRemovedData struct {
	CartID int64  `json:"cart_id"`
	Owner  string `json:"owner"`
}

// CartClearedData is the payload for a cart cleared event.
type CartClearedData struct {
	Owner        string `json:"owner"`
	LinesCleared int    `json:"lines_cleared"`
}

// ReviewWrittenData is the payload for a review written event.
type ReviewWrittenData struct {
	ProductID int64  `json:"product_id"`
	UserID    string `json:"user_id"`
	Rating    int    `json:"rating"`
}

// Producer publishes storefront domain events to Kafka. Publish failures are
// logged and swallowed; events never fail the request that produced them.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// CartEntryAdded publishes an entry-added event for a new ledger row.
func (p *Producer) CartEntryAdded(ctx context.Context, e *domain.CartEntry) {
	data := CartEntryAddedData{
		CartID:       e.CartID,
		Owner:        e.Owner,
		Name:         e.Name,
		Count:        e.Count,
		Price:        e.Price,
		PriceDisplay: domain.FormatPrice(e.Price),
	}
	p.publish(ctx, TopicCartEntryAdded, e.Owner, AggregateTypeCart, data)
}

// CartEntryRemoved publishes an entry-removed event.
func (p *Producer) CartEntryRemoved(ctx context.Context, cartID int64, owner string) {
	p.publish(ctx, TopicCartEntryRemoved, owner, AggregateTypeCart, CartEntryRemovedData{
		CartID: cartID,
		Owner:  owner,
	})
}

// CartCleared publishes a cleared event after a bulk removal.
func (p *Producer) CartCleared(ctx context.Context, owner string, linesCleared int) {
	p.publish(ctx, TopicCartCleared, owner, AggregateTypeCart, CartClearedData{
		Owner:        owner,
		LinesCleared: linesCleared,
	})
}

// ReviewWritten publishes a review written event.
func (p *Producer) ReviewWritten(ctx context.Context, r *domain.Review) {
	p.publish(ctx, TopicReviewWritten, strconv.FormatInt(r.ProductID, 10), AggregateTypeReview, ReviewWrittenData{
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Rating:    r.Rating,
	})
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) {
	if p.kafka == nil {
		return
	}

	evt, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceEshopBackend, data)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to create event",
			slog.String("topic", topic),
			slog.String("error", err.Error()),
		)
		return
	}

	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt = evt.WithCorrelationID(id)
	}

	if err := p.kafka.Publish(ctx, topic, evt); err != nil {
		p.logger.ErrorContext(ctx, fmt.Sprintf("failed to publish %s event", topic),
			slog.String("aggregate_id", aggregateID),
			slog.String("error", err.Error()),
		)
	}
}
