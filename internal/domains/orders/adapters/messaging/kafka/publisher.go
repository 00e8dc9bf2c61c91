package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/google/uuid"

	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-order-desk/internal/domains/orders/ports"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// producer is the subset of *kafka.Producer the publisher drives.
type producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Events() chan kafka.Event
	Flush(timeoutMs int) int
	Close()
}

// Envelope is the JSON document written for every order event.
type Envelope struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	OccurredAt time.Time       `json:"occurredAt"`
	OrderID    int64           `json:"orderId"`
	Payload    json.RawMessage `json:"payload"`
}

// Publisher ships order events to a Kafka topic keyed by order id, so every
// event of one order lands on the same partition.
type Publisher struct {
	producer producer
	topic    string
	logger   *slog.Logger
	done     chan struct{}
}

// NewPublisher connects an idempotent producer to brokers.
func NewPublisher(brokers, topic string, logger *slog.Logger) (*Publisher, error) {
	client, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  brokers,
		"acks":               "all",
		"enable.idempotence": true,
		"client.id":          "order-desk",
	})
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return newPublisher(client, topic, logger), nil
}

func newPublisher(p producer, topic string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	pub := &Publisher{producer: p, topic: topic, logger: logger, done: make(chan struct{})}
	go pub.handleDeliveryReports()
	return pub
}

// Publish enqueues every event. Failures are logged and returned joined; the
// order service does not act on them.
func (p *Publisher) Publish(ctx context.Context, events ...domain.Event) error {
	var errs []error
	for _, event := range events {
		msg, err := p.message(event)
		if err == nil {
			err = p.producer.Produce(msg, nil)
		}
		if err != nil {
			p.logger.LogAttrs(ctx, slog.LevelError, "failed to publish order event",
				slog.String("event", event.EventName()),
				slog.Int64("order.id", event.AggregateID()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close flushes pending messages for up to timeout and shuts the producer down.
func (p *Publisher) Close(timeout time.Duration) {
	if remaining := p.producer.Flush(int(timeout.Milliseconds())); remaining > 0 {
		p.logger.Warn("kafka flush timed out", slog.Int("pending", remaining))
	}
	p.producer.Close()
	<-p.done
}

func (p *Publisher) message(event domain.Event) (*kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", event.EventName(), err)
	}
	value, err := json.Marshal(Envelope{
		ID:         uuid.NewString(),
		Name:       event.EventName(),
		OccurredAt: event.OccurredAt().UTC(),
		OrderID:    event.AggregateID(),
		Payload:    payload,
	})
	if err != nil {
		return nil, fmt.Errorf("encode %s envelope: %w", event.EventName(), err)
	}
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Key:            []byte(strconv.FormatInt(event.AggregateID(), 10)),
		Value:          value,
		Headers:        []kafka.Header{{Key: "event-name", Value: []byte(event.EventName())}},
	}, nil
}

func (p *Publisher) handleDeliveryReports() {
	defer close(p.done)
	for e := range p.producer.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				p.logger.Error("order event delivery failed",
					slog.String("key", string(ev.Key)),
					slog.String("error", ev.TopicPartition.Error.Error()),
				)
			}
		case kafka.Error:
			p.logger.Error("kafka producer error", slog.String("error", ev.Error()))
		}
	}
}
