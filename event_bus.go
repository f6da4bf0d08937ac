package main

// Event feed — publishes a summary of every handled webhook event to a
// durable queue for downstream consumers (dashboards, audit). The feed is
// optional: when AMQP_URL is not configured the publisher is absent and
// webhook handling proceeds without it. Inbound processing is always
// synchronous; the feed only fans out what already happened.

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const processedEventsQueue = "pr_webhook_events"

// ProcessedEvent is the message published after a rule completes.
type ProcessedEvent struct {
	Repo       string    `json:"repo"`
	PRNumber   int       `json:"pr_number"`
	EventType  string    `json:"event_type"`
	Action     string    `json:"action"`
	ReceivedAt time.Time `json:"received_at"`
}

// EventBus wraps an AMQP connection and a dedicated publish channel. The
// mutex guards the channel across concurrent HTTP handler goroutines —
// amqp091-go channels are not goroutine-safe.
type EventBus struct {
	conn      *amqp.Connection
	publishMu sync.Mutex
	pubCh     *amqp.Channel
}

// NewEventBus dials the broker at url, opens a dedicated publish channel,
// and declares the durable feed queue.
func NewEventBus(url string) (*EventBus, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("event bus: failed to connect to %s: %w", url, err)
	}

	pubCh, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("event bus: failed to open publish channel: %w", err)
	}

	if _, err := pubCh.QueueDeclare(
		processedEventsQueue,
		true,  // durable
		false, // auto-delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // additional arguments
	); err != nil {
		pubCh.Close()
		conn.Close()
		return nil, fmt.Errorf("event bus: failed to declare queue %q: %w", processedEventsQueue, err)
	}

	return &EventBus{conn: conn, pubCh: pubCh}, nil
}

// Publish serialises event as JSON and sends it to the feed queue. Callers
// treat failures as log-worthy, not fatal: the feed never blocks or fails
// webhook handling.
func (b *EventBus) Publish(event ProcessedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("event bus: failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	b.publishMu.Lock()
	defer b.publishMu.Unlock()

	if err := b.pubCh.PublishWithContext(ctx,
		"",                   // default exchange
		processedEventsQueue, // routing key = queue name
		false,                // mandatory
		false,                // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent, // survive broker restart
			Body:         body,
		},
	); err != nil {
		return fmt.Errorf("event bus: failed to publish event: %w", err)
	}

	log.Printf("[EventBus] Published %s.%s for PR #%d to %q\n",
		event.EventType, event.Action, event.PRNumber, processedEventsQueue)
	return nil
}

// Close releases the publish channel and the underlying connection.
func (b *EventBus) Close() {
	if b.pubCh != nil {
		b.pubCh.Close()
	}
	if b.conn != nil {
		b.conn.Close()
	}
}
