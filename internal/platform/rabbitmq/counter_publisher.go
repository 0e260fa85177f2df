package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"lexportal/internal/event"
)

// CounterPublisher enqueues document counter events (views, downloads) so the
// increments happen off the read path.
type CounterPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewCounterPublisher(conn *amqp.Connection, queueName string) *CounterPublisher {
	return &CounterPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *CounterPublisher) Publish(ctx context.Context, evt event.CounterEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal counter event failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish counter event failed: %w", err)
	}
	return nil
}
