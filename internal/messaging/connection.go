package messaging

import (
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"restaurant-pos/internal/config"
	"restaurant-pos/internal/logger"
)

const (
	OrdersExchange        = "orders_topic"
	NotificationsExchange = "notifications_fanout"

	KitchenQueue       = "kitchen_queue"
	NotificationsQueue = "notifications_queue"
)

// kitchenBindings route new orders by kind; the catch-all queue sees every
// order of every tenant.
var kitchenBindings = []struct {
	queue      string
	routingKey string
}{
	{KitchenQueue, "kitchen.#"},
	{"kitchen_dine_in_queue", "kitchen.dine_in.*"},
	{"kitchen_takeout_queue", "kitchen.takeout.*"},
	{"kitchen_delivery_queue", "kitchen.delivery.*"},
}

// Connection wraps a RabbitMQ connection and channel with reconnection logic
type Connection struct {
	mu         sync.Mutex
	conn       *amqp091.Connection
	channel    *amqp091.Channel
	logger     *logger.Logger
	url        string
	maxRetries int
}

// New dials RabbitMQ, retrying with a growing delay, and declares the topology.
func New(cfg *config.Config, log *logger.Logger) (*Connection, error) {
	c := &Connection{
		logger:     log,
		url:        cfg.RabbitMQURL(),
		maxRetries: 5,
	}
	if err := c.connect(); err != nil {
		return nil, fmt.Errorf("failed to establish initial connection: %w", err)
	}
	return c, nil
}

func (c *Connection) connect() error {
	var err error
	for i := 0; i < c.maxRetries; i++ {
		if err = c.dial(); err == nil {
			return nil
		}
		if i < c.maxRetries-1 {
			wait := time.Duration(i+1) * 2 * time.Second
			c.logger.Error("rabbitmq_connection_failed",
				fmt.Sprintf("Failed to connect to RabbitMQ, retrying in %v", wait),
				"startup", err, map[string]interface{}{"attempt": i + 1})
			time.Sleep(wait)
		}
	}
	return fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", c.maxRetries, err)
}

func (c *Connection) dial() error {
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	if err := declareTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return err
	}
	c.conn, c.channel = conn, ch
	return nil
}

func declareTopology(ch *amqp091.Channel) error {
	if err := ch.ExchangeDeclare(OrdersExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare %s exchange: %w", OrdersExchange, err)
	}
	if err := ch.ExchangeDeclare(NotificationsExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare %s exchange: %w", NotificationsExchange, err)
	}

	for _, b := range kitchenBindings {
		// Tickets older than an hour are of no use to the kitchen.
		args := amqp091.Table{"x-message-ttl": int32(3600000)}
		if _, err := ch.QueueDeclare(b.queue, true, false, false, false, args); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", b.queue, err)
		}
		if err := ch.QueueBind(b.queue, b.routingKey, OrdersExchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue %s with routing key %s: %w", b.queue, b.routingKey, err)
		}
	}

	if _, err := ch.QueueDeclare(NotificationsQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", NotificationsQueue, err)
	}
	if err := ch.QueueBind(NotificationsQueue, "", NotificationsExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", NotificationsQueue, err)
	}
	return nil
}

// Channel returns the live channel, reconnecting first if the connection has
// dropped.
func (c *Connection) Channel() (*amqp091.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil || c.conn.IsClosed() || c.channel == nil || c.channel.IsClosed() {
		c.closeLocked()
		if err := c.connect(); err != nil {
			return nil, err
		}
	}
	return c.channel, nil
}

func (c *Connection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn == nil || c.conn.IsClosed()
}

func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Connection) closeLocked() error {
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		if err != nil && err != amqp091.ErrClosed {
			return err
		}
	}
	return nil
}
