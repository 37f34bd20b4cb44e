package producer

import (
	"context"

	"github.com/way-wise/company-site-backend-sub001/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
)

// Publisher writes outbox rows to their target topics. The aggregate id
// is used as the message key so decisions for one application stay on
// one partition.
type Publisher struct {
	writer *kafkago.Writer
}

func NewPublisher(writer *kafkago.Writer) *Publisher {
	return &Publisher{writer: writer}
}

func (p *Publisher) Publish(ctx context.Context, event kafka.OutboxEvent) error {
	msg := kafkago.Message{
		Topic: event.Topic,
		Key:   []byte(event.AggregateID),
		Value: event.Payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "aggregate_type", Value: []byte(event.AggregateType)},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}
