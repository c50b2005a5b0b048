// Package kafka provides the Kafka-backed domain event sink. Events are
// published after aggregate persistence; delivery guarantees beyond the
// broker acknowledgement are the consumer's concern.
package kafka

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/fastygo/salescore/domain"
)

type Producer struct {
	writer *kafkago.Writer
	logger *zap.Logger
}

// NewProducer builds a producer for the given brokers and topic. Writes
// require acknowledgement from all replicas so a published event is not
// lost on a single broker failure.
func NewProducer(brokers []string, topic string, logger *zap.Logger) *Producer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Producer{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafkago.Hash{},
			RequiredAcks: kafkago.RequireAll,
		},
		logger: logger,
	}
}

// Publish writes the events in order, keyed by aggregate id so events of
// one aggregate land on one partition.
func (p *Producer) Publish(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]kafkago.Message, 0, len(events))
	for _, event := range events {
		value, err := json.Marshal(event)
		if err != nil {
			return err
		}
		messages = append(messages, kafkago.Message{
			Key:   []byte(event.AggregateID),
			Value: value,
			Time:  event.OccurredAt,
		})
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		p.logger.Error("event publish failed", zap.Int("events", len(messages)), zap.Error(err))
		return err
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
