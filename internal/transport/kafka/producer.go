package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"service-rider-web/internal/domain"
	"service-rider-web/internal/logx"
)

var newSyncProducer = sarama.NewSyncProducer

// Producer publishes status-change events.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	logger   logx.Logger
}

// NewProducer creates a Producer. It returns nil, nil when Kafka is not configured.
func NewProducer(logger logx.Logger, brokers []string, topic string) (*Producer, error) {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" {
		return nil, nil
	}
	if logger == nil {
		logger = logx.Nop()
	}

	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Retry.Backoff = 100 * time.Millisecond
	cfg.Producer.Return.Successes = true

	p, err := newSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return newProducer(p, topic, logger), nil
}

func newProducer(p sarama.SyncProducer, topic string, logger logx.Logger) *Producer {
	return &Producer{
		producer: p,
		topic:    topic,
		logger:   logger.With(logx.String("component", "kafka_producer"), logx.String("topic", topic)),
	}
}

// PublishStatusChange sends ev keyed by order id. A nil Producer drops the event.
func (p *Producer) PublishStatusChange(ctx context.Context, ev domain.StatusChange) error {
	if p == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("kafka producer: encode: %w", err)
	}
	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ev.OrderID),
		Value: sarama.ByteEncoder(b),
	})
	if err != nil {
		return fmt.Errorf("kafka producer: send: %w", err)
	}
	p.logger.Debug("status change published",
		logx.String("order_id", ev.OrderID),
		logx.Int("partition", int(partition)),
		logx.Any("offset", offset),
	)
	return nil
}

// Close closes the underlying producer.
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
