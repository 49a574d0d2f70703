package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"eventhub/pkg/logger"
)

// KafkaConsumer consumes notifications and delivers them over email.
type KafkaConsumer struct {
	group  sarama.ConsumerGroup
	topics []string
	email  *EmailService
	log    *logger.Logger
	cancel context.CancelFunc
}

// NewKafkaConsumer creates a consumer group for the notifications topic.
func NewKafkaConsumer(brokers []string, groupID string, topics []string, email *EmailService) (*KafkaConsumer, error) {
	cfg := sarama.NewConfig()
	cfg.Consumer.Group.Session.Timeout = 30 * time.Second
	cfg.Consumer.Group.Heartbeat.Interval = 3 * time.Second
	cfg.Consumer.Return.Errors = true
	cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	cfg.Consumer.Offsets.AutoCommit.Enable = true
	cfg.Consumer.Offsets.AutoCommit.Interval = time.Second

	group, err := sarama.NewConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &KafkaConsumer{
		group:  group,
		topics: topics,
		email:  email,
		log:    logger.GetDefault(),
	}, nil
}

// Start runs the consume loop until ctx is cancelled.
func (c *KafkaConsumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	go func() {
		for err := range c.group.Errors() {
			c.log.Warn("consumer group error", "error", err.Error())
		}
	}()

	handler := &consumerHandler{email: c.email, log: c.log}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if err := c.group.Consume(ctx, c.topics, handler); err != nil {
					c.log.Warn("consume failed, retrying", "error", err.Error())
					time.Sleep(time.Second)
				}
			}
		}
	}()

	return nil
}

// Stop cancels the consume loop and closes the group.
func (c *KafkaConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	if err := c.group.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

type consumerHandler struct {
	email *EmailService
	log   *logger.Logger
}

func (h *consumerHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *consumerHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			if err := h.processMessage(session.Context(), message); err != nil {
				h.log.Warn("failed to process notification",
					"topic", message.Topic,
					"offset", message.Offset,
					"error", err.Error(),
				)
			}
			// Mark regardless; delivery failures are logged, not replayed.
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *consumerHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	var n Notification
	if err := json.Unmarshal(message.Value, &n); err != nil {
		return fmt.Errorf("failed to unmarshal notification: %w", err)
	}

	if h.email == nil {
		return nil
	}
	return h.email.Send(ctx, &n)
}
