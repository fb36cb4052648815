package events

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/blaisecz/vitality-tracker/internal/domain"
	"github.com/blaisecz/vitality-tracker/internal/repository"
	"github.com/segmentio/kafka-go"
)

// kafkaSampleMessage is the wire format device integrations publish.
type kafkaSampleMessage struct {
	MetricType domain.MetricType  `json:"metric_type"`
	StartAt    time.Time          `json:"start_at"`
	EndAt      *time.Time         `json:"end_at,omitempty"`
	Value      float64            `json:"value,omitempty"`
	Stage      *domain.SleepStage `json:"stage,omitempty"`
}

// Persist retries start at this delay and double up to the cap.
const (
	persistRetryBackoff    = time.Second
	persistRetryBackoffMax = 30 * time.Second
)

// KafkaConsumer reads device samples from a topic, persists them, and
// publishes arrival events on the in-process bus.
type KafkaConsumer struct {
	reader  *kafka.Reader
	samples repository.SampleRepository
	bus     *Bus
	backoff time.Duration
}

func NewKafkaConsumer(brokers []string, topic, groupID string, samples repository.SampleRepository, bus *Bus) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  500 * time.Millisecond,
	})
	return &KafkaConsumer{
		reader:  reader,
		samples: samples,
		bus:     bus,
		backoff: persistRetryBackoff,
	}
}

// Run consumes until ctx is cancelled. Malformed messages are logged and
// skipped; a failed persist is retried in place, and the offset is only
// committed once the sample has been stored.
func (c *KafkaConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		var payload kafkaSampleMessage
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			log.Printf("kafka: skipping malformed sample message at offset %d: %v", msg.Offset, err)
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				return err
			}
			continue
		}

		req := domain.IngestSampleRequest{
			MetricType: payload.MetricType,
			StartAt:    payload.StartAt,
			EndAt:      payload.EndAt,
			Value:      payload.Value,
			Stage:      payload.Stage,
		}
		sample := req.ToSample()

		if err := c.persistWithRetry(ctx, msg.Offset, sample); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		c.bus.PublishSample(SampleEvent{
			MetricType: sample.MetricType,
			Timestamp:  sample.StartAt,
		})

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return err
		}
	}
}

// persistWithRetry writes the sample, retrying with a doubling delay until
// the write lands or ctx ends. The caller commits the offset only after a
// successful write, so the reader never advances past an unstored sample.
func (c *KafkaConsumer) persistWithRetry(ctx context.Context, offset int64, sample *domain.Sample) error {
	delay := c.backoff
	for {
		err := c.samples.CreateBatch(ctx, []*domain.Sample{sample})
		if err == nil {
			return nil
		}
		log.Printf("kafka: persist failed at offset %d, retrying in %s: %v", offset, delay, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		if delay < persistRetryBackoffMax {
			delay *= 2
		}
	}
}

// Close releases the underlying reader.
func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
