package event

import (
	"context"
	"encoding/json"
	"fmt"

	"echo-audit-api/pkg/task"

	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	HeaderEvent = "event"
	HeaderID    = "task-id"

	EventTaskCreated = "task.created"
)

// Producer is the part of *kgo.Client the publisher needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Publisher announces newly stored tasks on a Kafka topic.
type Publisher struct {
	client Producer
	topic  string
}

func NewPublisher(client Producer, topic string) *Publisher {
	return &Publisher{client: client, topic: topic}
}

// NewKafkaClient builds a producer client for the given seed brokers.
func NewKafkaClient(brokers []string, topic string) (*kgo.Client, error) {
	return kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.AllowAutoTopicCreation(),
	)
}

func (p *Publisher) PublishTaskCreated(ctx context.Context, record task.TaskRecord) error {
	rec, err := taskToRec(p.topic, record)
	if err != nil {
		return err
	}
	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("publish task created: %w", err)
	}
	return nil
}

func taskToRec(topic string, record task.TaskRecord) (*kgo.Record, error) {
	value, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal task: %w", err)
	}
	return &kgo.Record{
		Topic: topic,
		Key:   []byte(record.Task),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: HeaderEvent, Value: []byte(EventTaskCreated)},
			{Key: HeaderID, Value: []byte(record.ID)},
		},
	}, nil
}
