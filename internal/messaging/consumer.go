package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"restaurant-pos/internal/logger"
)

// ErrMalformed marks a message that can never be processed. Such messages
// are dropped instead of requeued.
var ErrMalformed = errors.New("malformed message")

// MessageHandler processes one message body
type MessageHandler func(ctx context.Context, body []byte) error

// Consumer reads one queue with manual acknowledgements
type Consumer struct {
	conn        *Connection
	logger      *logger.Logger
	queueName   string
	consumerTag string
	prefetch    int
}

func NewConsumer(conn *Connection, log *logger.Logger, queueName, consumerTag string, prefetch int) *Consumer {
	return &Consumer{
		conn:        conn,
		logger:      log,
		queueName:   queueName,
		consumerTag: consumerTag,
		prefetch:    prefetch,
	}
}

// StartConsuming delivers messages to handler until ctx is cancelled. A
// closed delivery channel triggers a reconnect.
func (c *Consumer) StartConsuming(ctx context.Context, handler MessageHandler) error {
	for {
		msgs, err := c.subscribe()
		if err != nil {
			return err
		}

		c.logger.Info("consumer_started", fmt.Sprintf("Started consuming from queue %s", c.queueName), "", map[string]interface{}{
			"queue":    c.queueName,
			"consumer": c.consumerTag,
			"prefetch": c.prefetch,
		})

		if err := c.drain(ctx, msgs, handler); err != nil {
			return err
		}
		c.logger.Error("consumer_channel_closed", "Message channel closed, attempting to reconnect", "", nil, nil)
	}
}

func (c *Consumer) subscribe() (<-chan amqp091.Delivery, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to reconnect: %w", err)
	}
	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}
	msgs, err := ch.Consume(c.queueName, c.consumerTag, false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register consumer: %w", err)
	}
	return msgs, nil
}

// drain returns nil when the delivery channel closes and ctx.Err() on
// cancellation.
func (c *Consumer) drain(ctx context.Context, msgs <-chan amqp091.Delivery, handler MessageHandler) error {
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer_stopped", "Consumer stopped by context", "", nil)
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			c.processMessage(ctx, d, handler)
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context, delivery amqp091.Delivery, handler MessageHandler) {
	start := time.Now()

	processingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	err := handler(processingCtx, delivery.Body)
	details := map[string]interface{}{
		"queue":        c.queueName,
		"routing_key":  delivery.RoutingKey,
		"duration_ms":  time.Since(start).Milliseconds(),
		"delivery_tag": delivery.DeliveryTag,
	}

	if err != nil {
		requeue := !errors.Is(err, ErrMalformed)
		details["requeue"] = requeue
		c.logger.Error("message_processing_failed", "Failed to process message", "", err, details)
		if nackErr := delivery.Nack(false, requeue); nackErr != nil {
			c.logger.Error("message_nack_failed", "Failed to nack message", "", nackErr, nil)
		}
		return
	}

	c.logger.Debug("message_processed", "Successfully processed message", "", details)
	if ackErr := delivery.Ack(false); ackErr != nil {
		c.logger.Error("message_ack_failed", "Failed to ack message", "", ackErr, nil)
	}
}

// Close cancels the consumer and closes its connection.
func (c *Consumer) Close() error {
	if c.conn.IsClosed() {
		return nil
	}
	if ch, err := c.conn.Channel(); err == nil {
		if cancelErr := ch.Cancel(c.consumerTag, false); cancelErr != nil {
			c.logger.Error("consumer_cancel_failed", "Failed to cancel consumer", "", cancelErr, nil)
		}
	}
	return c.conn.Close()
}
