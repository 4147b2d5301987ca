package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/models"
)

const publishTimeout = 10 * time.Second

// Publisher sends order events to RabbitMQ
type Publisher struct {
	mu     sync.Mutex
	conn   *Connection
	logger *logger.Logger
}

func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{conn: conn, logger: log}
}

// PublishOrderCreated sends a kitchen ticket to the orders topic, routed by
// order kind and tenant.
func (p *Publisher) PublishOrderCreated(ctx context.Context, msg *models.OrderMessage) error {
	return p.publish(ctx, OrdersExchange, models.GenerateRoutingKey(msg.Kind, msg.TenantID), msg, true)
}

// PublishStatusChanged broadcasts a status change to every listener.
func (p *Publisher) PublishStatusChanged(ctx context.Context, msg *models.StatusUpdateMessage) error {
	return p.publish(ctx, NotificationsExchange, "", msg, false)
}

func (p *Publisher) publish(ctx context.Context, exchange, routingKey string, message interface{}, persistent bool) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp091.Transient,
		Timestamp:    time.Now().UTC(),
	}
	if persistent {
		publishing.DeliveryMode = amqp091.Persistent
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to reconnect: %w", err)
	}
	if err := ch.PublishWithContext(ctx, exchange, routingKey, false, false, publishing); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", exchange, err)
	}

	p.logger.Debug("message_published", fmt.Sprintf("Published message to exchange %s", exchange), "", map[string]interface{}{
		"exchange":     exchange,
		"routing_key":  routingKey,
		"message_size": len(body),
	})
	return nil
}

// NoopPublisher drops every event. The API uses it when RabbitMQ is not
// reachable at startup.
type NoopPublisher struct {
	logger *logger.Logger
}

func NewNoopPublisher(log *logger.Logger) *NoopPublisher {
	return &NoopPublisher{logger: log}
}

func (n *NoopPublisher) PublishOrderCreated(_ context.Context, msg *models.OrderMessage) error {
	n.logger.Debug("message_dropped", "Kitchen ticket not sent, messaging disabled", "", map[string]interface{}{
		"order_number": msg.OrderNumber,
	})
	return nil
}

func (n *NoopPublisher) PublishStatusChanged(_ context.Context, msg *models.StatusUpdateMessage) error {
	n.logger.Debug("message_dropped", "Status change not sent, messaging disabled", "", map[string]interface{}{
		"order_number": msg.OrderNumber,
	})
	return nil
}
