package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

// DefaultTopic is the registrar event stream topic.
const DefaultTopic = "namereg.events"

// KafkaSink publishes registrar events to a Kafka topic, keyed by label so
// one name's history stays ordered within a partition.
type KafkaSink struct {
	client *kgo.Client
	topic  string
}

// NewKafkaSink connects to the brokers and ensures the topic exists.
func NewKafkaSink(ctx context.Context, brokers []string, topic string) (*KafkaSink, error) {
	if topic == "" {
		topic = DefaultTopic
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
		kgo.RecordRetries(3),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}

	adm := kadm.NewClient(client)
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := adm.CreateTopic(pingCtx, 1, 1, nil, topic); err != nil {
		// Already-exists is the normal steady state; anything else surfaces
		// at first produce, so creation failures are not fatal here.
		if _, describeErr := adm.ListTopics(pingCtx, topic); describeErr != nil {
			client.Close()
			return nil, fmt.Errorf("kafka topic %q: %w", topic, err)
		}
	}

	return &KafkaSink{client: client, topic: topic}, nil
}

// Emit publishes one event synchronously. Callers treat failures as
// best-effort narration loss, not operation failure.
func (s *KafkaSink) Emit(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(ev.Label),
		Value: payload,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce event: %w", err)
	}
	return nil
}

// Health verifies broker reachability.
func (s *KafkaSink) Health(ctx context.Context) error {
	return s.client.Ping(ctx)
}

// Close flushes and releases the producer.
func (s *KafkaSink) Close() {
	s.client.Close()
}
