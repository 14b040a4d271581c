package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/theleywin/Backend-Linkup/src/lib"
)

const kindHeader = "kind"

type producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Events() chan kafka.Event
	Flush(timeoutMs int) int
	Close()
}

type consumer interface {
	SubscribeTopics(topics []string, rebalanceCb kafka.RebalanceCb) error
	Poll(timeoutMs int) kafka.Event
	CommitMessage(m *kafka.Message) ([]kafka.TopicPartition, error)
	Close() error
}

// KafkaQueue publishes jobs to a topic and delivers them from a consumer
// group, so queued mail survives a restart.
type KafkaQueue struct {
	deliverer *Deliverer
	topic     string
	group     string
	producer  producer
	consumer  consumer

	cancel   context.CancelFunc
	done     chan struct{}
	reported chan struct{}
	once     sync.Once
}

func NewKafkaQueue(d *Deliverer, brokers []string, topic, group string) (*KafkaQueue, error) {
	servers := strings.Join(brokers, ",")

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  servers,
		"client.id":          "linkup-api",
		"acks":               "all",
		"message.timeout.ms": 30000,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  servers,
		"group.id":           group,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": "false",
	})
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to create Kafka consumer for group %s: %w", group, err)
	}

	return newKafkaQueue(d, topic, group, p, c), nil
}

func newKafkaQueue(d *Deliverer, topic, group string, p producer, c consumer) *KafkaQueue {
	return &KafkaQueue{
		deliverer: d,
		topic:     topic,
		group:     group,
		producer:  p,
		consumer:  c,
		done:      make(chan struct{}),
		reported:  make(chan struct{}),
	}
}

// Enqueue hands the job to the producer's local queue and returns without
// waiting for the broker. Delivery reports are handled by the goroutine
// started in Start.
func (q *KafkaQueue) Enqueue(ctx context.Context, job Job) error {
	payload, err := job.Encode()
	if err != nil {
		return err
	}

	err = q.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &q.topic, Partition: kafka.PartitionAny},
		Key:            []byte(job.To),
		Value:          payload,
		Headers:        []kafka.Header{{Key: kindHeader, Value: []byte(job.Kind)}},
		Timestamp:      time.Now(),
	}, nil)
	if err != nil {
		lib.MailJobs.WithLabelValues(string(job.Kind), "dropped").Inc()
		return fmt.Errorf("kafka producer failed to enqueue mail job for topic %s: %w", q.topic, err)
	}
	lib.MailJobs.WithLabelValues(string(job.Kind), "queued").Inc()
	return nil
}

// reportDeliveries drains the producer's event channel until the producer is closed.
func (q *KafkaQueue) reportDeliveries() {
	defer close(q.reported)
	for ev := range q.producer.Events() {
		switch e := ev.(type) {
		case *kafka.Message:
			if e.TopicPartition.Error != nil {
				kind := headerValue(e, kindHeader)
				lib.MailJobs.WithLabelValues(kind, "dropped").Inc()
				slog.Error("mail job delivery to kafka failed", "topic", q.topic, "kind", kind, "error", e.TopicPartition.Error)
			}
		case kafka.Error:
			slog.Warn("kafka producer error", "code", e.Code(), "fatal", e.IsFatal(), "error", e)
		}
	}
}

func headerValue(m *kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

// Start subscribes the consumer and runs the poll loop in the background.
func (q *KafkaQueue) Start(ctx context.Context) {
	ctx, q.cancel = context.WithCancel(ctx)
	go q.reportDeliveries()

	if err := q.consumer.SubscribeTopics([]string{q.topic}, nil); err != nil {
		slog.Error("mail consumer subscribe failed", "topic", q.topic, "group", q.group, "error", err)
		close(q.done)
		return
	}

	slog.Info("mail consumer started", "topic", q.topic, "group", q.group)
	go func() {
		defer close(q.done)
		if err := q.consume(ctx); err != nil {
			slog.Error("mail consumer stopped", "group", q.group, "error", err)
		}
	}()
}

func (q *KafkaQueue) consume(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		ev := q.consumer.Poll(500)
		if ev == nil {
			continue
		}

		switch e := ev.(type) {
		case *kafka.Message:
			if err := q.handle(ctx, e); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				continue
			}
			if _, err := q.consumer.CommitMessage(e); err != nil {
				slog.Error("mail consumer commit failed", "group", q.group, "offset", e.TopicPartition.Offset, "error", err)
			}
		case kafka.Error:
			slog.Warn("kafka consumer error", "group", q.group, "code", e.Code(), "fatal", e.IsFatal(), "error", e)
			if e.IsFatal() {
				return e
			}
		}
	}
}

// handle returns an error only when the message must stay uncommitted.
// Undecodable and undeliverable jobs are logged and committed.
func (q *KafkaQueue) handle(ctx context.Context, m *kafka.Message) error {
	job, err := DecodeJob(m.Value)
	if err != nil {
		slog.Error("skipping malformed mail job", "offset", m.TopicPartition.Offset, "error", err)
		return nil
	}

	if err := q.deliverer.Deliver(ctx, job); err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

// Close stops the poll loop, flushes pending produces and releases both clients.
func (q *KafkaQueue) Close() {
	q.once.Do(func() {
		if q.cancel != nil {
			q.cancel()
			<-q.done
		}

		if remaining := q.producer.Flush(15 * 1000); remaining > 0 {
			slog.Warn("mail jobs still outstanding after flush", "remaining", remaining)
		}
		q.producer.Close()
		if q.cancel != nil {
			<-q.reported
		}
		if err := q.consumer.Close(); err != nil {
			slog.Error("closing kafka consumer", "group", q.group, "error", err)
		}
	})
}
