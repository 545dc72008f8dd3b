// Package kafka hands outbox emails to the email relay via a Kafka topic.
// The relay owns SMTP; this service only guarantees the record reaches the
// broker.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"auditdesk/internal/outbox/models"
)

// Publisher produces outbox emails to a Kafka topic.
type Publisher struct {
	client *kgo.Client
	topic  string
}

// NewPublisher connects a producer for the given topic.
func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerLinger(5*time.Millisecond),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("connect kafka producer: %w", err)
	}
	return &Publisher{client: client, topic: topic}, nil
}

// Publish produces one email synchronously. The worker marks the email sent
// only after the broker acknowledges.
func (p *Publisher) Publish(ctx context.Context, email *models.Email) error {
	payload, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}
	record := &kgo.Record{
		Key:   []byte(email.ID.String()),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce email: %w", err)
	}
	return nil
}

// Close flushes and shuts down the producer.
func (p *Publisher) Close() {
	p.client.Close()
}
