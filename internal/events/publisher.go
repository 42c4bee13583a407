package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// OrderAcceptedType is the event name consumed by the notification collaborator.
const OrderAcceptedType = "order.accepted"

// OrderAccepted is emitted once an acceptance is durable.
type OrderAccepted struct {
	Type         string    `json:"type"`
	OrderID      string    `json:"orderId"`
	DisplayID    string    `json:"displayId"`
	BrandID      string    `json:"brandId"`
	SupplierID   string    `json:"supplierId"`
	SupplierName string    `json:"supplierName"`
	AcceptedBy   string    `json:"acceptedBy"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// Publisher delivers domain events outside the process.
type Publisher interface {
	PublishOrderAccepted(ctx context.Context, event OrderAccepted) error
}

// RedisPublisher publishes events as JSON on a Redis pub/sub channel.
type RedisPublisher struct {
	Client  *redis.Client
	Channel string
}

// NewRedisPublisher creates a new RedisPublisher.
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = OrderAcceptedType
	}
	return &RedisPublisher{Client: client, Channel: channel}
}

// PublishOrderAccepted implements Publisher.
func (p *RedisPublisher) PublishOrderAccepted(ctx context.Context, event OrderAccepted) error {
	event.Type = OrderAcceptedType
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", event.Type, err)
	}
	if err := p.Client.Publish(ctx, p.Channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

// LogPublisher only logs events. Used when no broker is configured.
type LogPublisher struct {
	Logger *zap.Logger
}

// PublishOrderAccepted implements Publisher.
func (p *LogPublisher) PublishOrderAccepted(_ context.Context, event OrderAccepted) error {
	p.Logger.Info("event published",
		zap.String("type", OrderAcceptedType),
		zap.String("order_id", event.OrderID),
		zap.String("display_id", event.DisplayID),
		zap.String("supplier_id", event.SupplierID),
	)
	return nil
}

// MemoryPublisher records events in memory. Err, when set, is returned by every publish.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []OrderAccepted
	Err    error
}

// PublishOrderAccepted implements Publisher.
func (p *MemoryPublisher) PublishOrderAccepted(_ context.Context, event OrderAccepted) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	event.Type = OrderAcceptedType
	p.events = append(p.events, event)
	return nil
}

// Events returns a copy of the recorded events.
func (p *MemoryPublisher) Events() []OrderAccepted {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]OrderAccepted, len(p.events))
	copy(out, p.events)
	return out
}
