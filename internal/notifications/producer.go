package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"eventhub/pkg/logger"
)

// KafkaProducer publishes notifications to Kafka. It satisfies Publisher.
type KafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewKafkaProducer creates a synchronous Kafka producer for notifications.
func NewKafkaProducer(brokers []string, topic string) (*KafkaProducer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Timeout = 10 * time.Second
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1

	// Hash on recipient so one user's notifications stay ordered.
	cfg.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &KafkaProducer{
		producer: producer,
		topic:    topic,
		log:      logger.GetDefault(),
	}, nil
}

// Publish sends a single notification to the notifications topic.
func (p *KafkaProducer) Publish(ctx context.Context, n *Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(n.Recipient),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("notification_type"), Value: []byte(n.Type)},
			{Key: []byte("created_at"), Value: []byte(n.Timestamp.Format(time.RFC3339))},
		},
		Timestamp: n.Timestamp,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}

	p.log.DebugContext(ctx, "notification published",
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"type", string(n.Type),
	)

	return nil
}

// Close closes the underlying Kafka producer.
func (p *KafkaProducer) Close() error {
	if p.producer != nil {
		if err := p.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
	}
	return nil
}
