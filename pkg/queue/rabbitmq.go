package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"code-campus/pkg/config"
	"code-campus/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventQueueName  = "notification_events"
	EventExchange   = "campus.events"
	eventRoutingKey = "domain_event"
)

// Client carries domain events from the action that caused them (registration,
// enrollment, grading) to the notification service. Delivery is best-effort:
// publishers log failures and move on, they never fail the triggering action.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		EventExchange, // name
		"direct",      // type
		true,          // durable
		false,         // auto-deleted
		false,         // internal
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		EventQueueName, // name
		true,           // durable
		false,          // delete when unused
		false,          // exclusive
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	err = channel.QueueBind(
		EventQueueName,
		eventRoutingKey,
		EventExchange,
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// PublishDomainEvent publishes a domain event for the notification service. The
// event map must carry an "event" key naming the event type; everything else is
// event-specific payload.
func (c *Client) PublishDomainEvent(event map[string]interface{}) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = c.channel.Publish(
		EventExchange,
		eventRoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         eventJSON,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish event to exchange=%s: %v", EventExchange, err)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	c.logger.Info("[RABBITMQ] Published domain event: %s", string(eventJSON))
	return nil
}

// ConsumeDomainEvents delivers each queued event to handler. A handler error
// requeues the event once; malformed payloads are dropped.
func (c *Client) ConsumeDomainEvents(handler func(event map[string]interface{}) error) error {
	msgs, err := c.channel.Consume(
		EventQueueName,
		"",    // consumer
		false, // auto-ack (ack after processing)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from queue: %s", EventQueueName)

	go func() {
		for msg := range msgs {
			var event map[string]interface{}
			if err := json.Unmarshal(msg.Body, &event); err != nil {
				c.logger.Error("[RABBITMQ] Failed to unmarshal event: %v, body=%s", err, string(msg.Body))
				msg.Nack(false, false) // reject, don't requeue
				continue
			}

			if err := handler(event); err != nil {
				c.logger.Error("[RABBITMQ] Handler failed to process event: %v, event=%+v", err, event)
				msg.Nack(false, !msg.Redelivered)
				continue
			}

			msg.Ack(false)
		}
	}()

	return nil
}

// GetQueueLength returns the number of pending events.
func (c *Client) GetQueueLength() (int, error) {
	queue, err := c.channel.QueueInspect(EventQueueName)
	if err != nil {
		return 0, err
	}
	return queue.Messages, nil
}
