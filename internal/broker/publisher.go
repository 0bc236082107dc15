package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"

	"github.com/DeafMist/intel-feed/internal/logger"
)

// MessageWriter is the subset of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes JSON messages to one topic, retrying transient failures
// with exponential backoff.
type Publisher struct {
	w          MessageWriter
	log        *slog.Logger
	maxRetries uint64
	initial    time.Duration
}

// NewWriter returns a kafka writer for topic.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
	}
}

// NewPublisher wraps w.
func NewPublisher(w MessageWriter, log *slog.Logger) *Publisher {
	if log == nil {
		log = logger.Discard()
	}
	return &Publisher{w: w, log: log, maxRetries: 4, initial: time.Second}
}

// WithBackoff overrides the retry schedule.
func (p *Publisher) WithBackoff(initial time.Duration, maxRetries uint64) *Publisher {
	p.initial = initial
	p.maxRetries = maxRetries
	return p
}

// PublishJSON encodes v and writes it under key.
func (p *Publisher) PublishJSON(ctx context.Context, key string, v any, headers ...kafka.Header) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return p.Publish(ctx, kafka.Message{Key: []byte(key), Value: payload, Headers: headers})
}

// Publish writes msg, retrying until the schedule is exhausted or ctx ends.
func (p *Publisher) Publish(ctx context.Context, msg kafka.Message) error {
	attempt := 0
	op := func() error {
		attempt++
		return p.w.WriteMessages(ctx, msg)
	}
	notify := func(err error, wait time.Duration) {
		p.log.Warn("kafka write failed, retrying",
			slog.Any("err", err),
			slog.Int("attempt", attempt),
			slog.Duration("backoff", wait),
		)
	}

	if err := backoff.RetryNotify(op, p.schedule(ctx), notify); err != nil {
		return fmt.Errorf("write message after %d attempts: %w", attempt, err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.w.Close()
}

func (p *Publisher) schedule(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.initial
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, p.maxRetries), ctx)
}
