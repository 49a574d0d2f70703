package notifications

import (
	"context"
	"fmt"
	"sync"

	"eventhub/internal/shared/config"
	"eventhub/pkg/logger"
)

// Service ties the producer, consumer and email delivery together. When
// Kafka is disabled in config, NewService returns (nil, nil) and the domain
// services degrade to publishing nothing.
type Service struct {
	producer *KafkaProducer
	consumer *KafkaConsumer
	log      *logger.Logger

	mu      sync.Mutex
	running bool
}

// NewService builds the notification pipeline from config.
func NewService(cfg *config.Config) (*Service, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	producer, err := NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification producer: %w", err)
	}

	email := NewEmailService(&cfg.Email)

	consumer, err := NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, []string{cfg.Kafka.Topic}, email)
	if err != nil {
		producer.Close()
		return nil, fmt.Errorf("failed to create notification consumer: %w", err)
	}

	return &Service{
		producer: producer,
		consumer: consumer,
		log:      logger.GetDefault(),
	}, nil
}

// Publish implements Publisher. Safe on a nil receiver so callers never
// have to branch on whether notifications are enabled.
func (s *Service) Publish(ctx context.Context, n *Notification) error {
	if s == nil {
		return nil
	}
	return s.producer.Publish(ctx, n)
}

// Start launches the consumer workers.
func (s *Service) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("notification service already running")
	}

	if err := s.consumer.Start(ctx); err != nil {
		return err
	}

	s.running = true
	s.log.Info("notification service started")
	return nil
}

// Stop shuts down the consumer and producer.
func (s *Service) Stop() error {
	if s == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	if err := s.consumer.Stop(); err != nil {
		s.log.Warn("failed to stop consumer", "error", err.Error())
	}
	if err := s.producer.Close(); err != nil {
		s.log.Warn("failed to close producer", "error", err.Error())
	}

	s.running = false
	s.log.Info("notification service stopped")
	return nil
}
