// Package consumer empties the persisted cart slot when an order placed on
// another device or tab is confirmed, so every copy of the cart converges
// after a completed purchase. Best effort: cross-tab consistency is not
// guaranteed, last write still wins on Save.
package consumer

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/FagneAlmeida/e-turboost.site/internal/cartstore"
)

const paymentConfirmedTopic = "orders.payment-confirmed"

// MessageReader is the subset of kafka.Reader the consumer needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type OrderConsumer struct {
	reader MessageReader
	store  cartstore.Store
	owner  string
}

// New builds a consumer on the payment-confirmed topic for one customer's
// cart slot.
func New(store cartstore.Store, owner string, brokers ...string) *OrderConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    paymentConfirmedTopic,
		GroupID:  "storefront-" + owner,
		MaxBytes: 10e6, // 10MB
	})
	return &OrderConsumer{reader: reader, store: store, owner: owner}
}

// NewWithReader is used by tests and custom wiring.
func NewWithReader(reader MessageReader, store cartstore.Store, owner string) *OrderConsumer {
	return &OrderConsumer{reader: reader, store: store, owner: owner}
}

func (c *OrderConsumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.consumeOne(ctx)
	}
}

func (c *OrderConsumer) Close() {
	if err := c.reader.Close(); err != nil {
		log.Printf("error closing order consumer: %v", err)
	}
}

func (c *OrderConsumer) consumeOne(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("error reading order event: %v", err)
		}
		return
	}

	var payload struct {
		CustomerID string `json:"customer_id"`
	}
	if err := json.Unmarshal(m.Value, &payload); err != nil {
		log.Printf("error parsing order event: %v", err)
		return
	}
	if payload.CustomerID == "" {
		log.Printf("order event missing customer_id")
		return
	}
	if payload.CustomerID != c.owner {
		return
	}

	if err := c.store.Clear(ctx); err != nil {
		log.Printf("failed to clear cart after confirmed order: %v", err)
	}
}
