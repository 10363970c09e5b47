package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"vidshare/internal/model"
)

type VideoEventPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewVideoEventPublisher(conn *amqp.Connection, queueName string) *VideoEventPublisher {
	return &VideoEventPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *VideoEventPublisher) Publish(ctx context.Context, event model.VideoEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if err := DeclareVideoEventsQueue(ch, p.queueName); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal video event failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         event.Type,
			Body:         payload,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
		},
	); err != nil {
		return fmt.Errorf("publish video event failed: %w", err)
	}
	return nil
}
