package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/animequeens/storefront/internal/cart"
	pkgkafka "github.com/animequeens/storefront/pkg/kafka"
)

// Kafka topics for cart domain events.
const (
	TopicCartUpdated = "storefront.cart.updated"
	TopicCartCleared = "storefront.cart.cleared"
)

const (
	aggregateTypeCart = "cart"
	sourceStorefront  = "storefront"
)

// CartUpdatedData is the payload of a cart.updated event.
type CartUpdatedData struct {
	SessionID string          `json:"session_id"`
	Action    string          `json:"action"`
	ProductID int64           `json:"product_id,omitempty"`
	Items     []cart.LineItem `json:"items"`
	ItemCount int             `json:"item_count"`
	Subtotal  float64         `json:"subtotal"`
}

// CartClearedData is the payload of a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// Producer publishes cart domain events to Kafka. It is one consumer of
// the cart's change notification; publish failures are logged and never
// reach the code that mutated the cart.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a cart event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

// Attach subscribes the producer to the manager's change event and returns
// the unsubscribe function. Each change is published with a snapshot taken
// after the mutation.
func (p *Producer) Attach(sessionID string, m *cart.Manager) func() {
	return m.On(cart.EventChange, func(ch cart.Change) {
		ctx := context.Background()
		if err := p.publish(ctx, sessionID, m, ch); err != nil {
			p.logger.ErrorContext(ctx, "publish cart event",
				slog.String("session_id", sessionID),
				slog.String("action", ch.Action),
				slog.String("error", err.Error()),
			)
		}
	})
}

func (p *Producer) publish(ctx context.Context, sessionID string, m *cart.Manager, ch cart.Change) error {
	if ch.Action == cart.ActionClear {
		return p.publishCleared(ctx, sessionID)
	}
	return p.publishUpdated(ctx, sessionID, m, ch)
}

func (p *Producer) publishUpdated(ctx context.Context, sessionID string, m *cart.Manager, ch cart.Change) error {
	data := CartUpdatedData{
		SessionID: sessionID,
		Action:    ch.Action,
		ProductID: ch.ProductID,
		Items:     m.Items(),
		ItemCount: m.ItemCount(),
		Subtotal:  m.Subtotal(),
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, sessionID, aggregateTypeCart, sourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}
	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}
	return nil
}

func (p *Producer) publishCleared(ctx context.Context, sessionID string) error {
	event, err := pkgkafka.NewEvent(TopicCartCleared, sessionID, aggregateTypeCart, sourceStorefront,
		CartClearedData{SessionID: sessionID})
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}
	if err := p.kafka.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}
	return nil
}
