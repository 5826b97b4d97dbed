package kafka

import (
	"context"
	"encoding/json"

	"github.com/hassanhashmi16/Clothing-Store/models"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ProducerAPI is the surface the order service needs; satisfied by
// Producer and by test fakes.
type ProducerAPI interface {
	SendOrderEvent(ctx context.Context, event models.OrderEvent) error
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{writer: writer}
}

// SendOrderEvent publishes an order event keyed by user id, so a single
// user's order history stays ordered within a partition.
func (p *Producer) SendOrderEvent(ctx context.Context, event models.OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.UserID),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		zap.L().Error("Failed to send Kafka message", zap.String("event", event.Event), zap.Error(err))
		return err
	}
	return nil
}

func (p *Producer) Close() {
	_ = p.writer.Close()
}
