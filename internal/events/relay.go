package events

import (
	"context"
	"fmt"
	"time"

	"github.com/Sathish-R02/Saa-CRM/internal/model"
	"github.com/Sathish-R02/Saa-CRM/prometheus"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	defaultBatchSize = 100
	defaultInterval  = time.Second
)

// OutboxStore is the part of the record store the relay works on
type OutboxStore interface {
	PendingOutbox(ctx context.Context, limit int) ([]model.OutboxEvent, error)
	MarkOutboxSent(ctx context.Context, id uint, at time.Time) error
}

// messageWriter abstracts kafka.Writer for testability
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Relay moves unsent outbox events to Kafka. Delivery is at least once:
// consumers dedupe on the envelope's event_id.
type Relay struct {
	store    OutboxStore
	writer   messageWriter
	log      *zap.Logger
	batch    int
	interval time.Duration
	now      func() time.Time
}

// RelayOption configures a Relay
type RelayOption func(*Relay)

// WithBatchSize sets how many events are read and written per round
func WithBatchSize(n int) RelayOption {
	return func(r *Relay) {
		if n > 0 {
			r.batch = n
		}
	}
}

// WithInterval sets the polling interval of Run
func WithInterval(d time.Duration) RelayOption {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

// NewKafkaRelay creates a relay writing to brokers. Each message goes to
// the topic stored on its outbox row.
func NewKafkaRelay(s OutboxStore, brokers []string, log *zap.Logger, opts ...RelayOption) *Relay {
	return newRelay(s, &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}, log, opts...)
}

func newRelay(s OutboxStore, w messageWriter, log *zap.Logger, opts ...RelayOption) *Relay {
	r := &Relay{
		store:    s,
		writer:   w,
		log:      log,
		batch:    defaultBatchSize,
		interval: defaultInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Flush relays pending events until the outbox is drained or a step fails.
// It returns how many events were marked sent.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	sent := 0
	for {
		pending, err := r.store.PendingOutbox(ctx, r.batch)
		if err != nil {
			return sent, fmt.Errorf("failed to read outbox: %w", err)
		}
		if len(pending) == 0 {
			return sent, nil
		}

		msgs := make([]kafka.Message, 0, len(pending))
		for _, e := range pending {
			msgs = append(msgs, kafka.Message{
				Topic: e.Topic,
				Key:   []byte(e.Key),
				Value: []byte(e.Payload),
				Time:  e.CreatedAt,
			})
		}
		if err := r.writer.WriteMessages(ctx, msgs...); err != nil {
			prometheus.RecordEventsPublished("error", len(msgs))
			return sent, fmt.Errorf("failed to write %d events: %w", len(msgs), err)
		}
		prometheus.RecordEventsPublished("success", len(msgs))

		at := r.now()
		for _, e := range pending {
			if err := r.store.MarkOutboxSent(ctx, e.ID, at); err != nil {
				return sent, fmt.Errorf("failed to mark event %s sent: %w", e.EventID, err)
			}
			sent++
		}

		if len(pending) < r.batch {
			return sent, nil
		}
	}
}

// Run flushes the outbox every interval until ctx is done
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		n, err := r.Flush(ctx)
		switch {
		case err != nil && ctx.Err() == nil:
			r.log.Error("Outbox relay failed", zap.Int("sent", n), zap.Error(err))
		case n > 0:
			r.log.Debug("Outbox events relayed", zap.Int("sent", n))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Close flushes and closes the Kafka writer
func (r *Relay) Close() error {
	return r.writer.Close()
}
