// Package registry stores submitted library registrations and wizard
// journals as events in the embedded JetStream stream.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/smartlib/libreg/internal/logger"
	"github.com/smartlib/libreg/internal/nats"
)

// Event is one entry of the append-only log.
type Event struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Type      string          `json:"type"`   // registration, wizard
	Token     string          `json:"token"`  // Library slug or wizard session id
	Action    string          `json:"action"` // create, or a wizard event type
	Meta      json.RawMessage `json:"meta,omitempty"`
	Data      string          `json:"data,omitempty"`
}

// Options tunes a Store.
type Options struct {
	MaxLogoBytes  int64         // 0 disables the check
	SubmitTimeout time.Duration // 0 means no timeout
	HashCost      int           // bcrypt cost, 0 for the default
}

// Store reads and writes events on the libreg stream.
type Store struct {
	js     jetstream.JetStream
	stream jetstream.Stream
	opts   Options
	now    func() time.Time
}

// NewStore creates a Store on an existing stream.
func NewStore(js jetstream.JetStream, stream jetstream.Stream, opts Options) *Store {
	return &Store{js: js, stream: stream, opts: opts, now: time.Now}
}

// PublishEvent appends event to the log on subject libreg.{type}.{token}.
func (s *Store) PublishEvent(ctx context.Context, event Event) (*jetstream.PubAck, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := nats.SubjectForEvent(event.Type, event.Token)
	logger.Debug("Publishing event: subject=%s action=%s", subject, event.Action)

	ack, err := s.js.Publish(ctx, subject, data)
	if err != nil {
		logger.Error("Failed to publish event to subject %s: %v", subject, err)
		return nil, fmt.Errorf("failed to publish event: %w", err)
	}
	return ack, nil
}

// replay feeds every event matching filter to fn in stream order.
// Malformed events are skipped.
func (s *Store) replay(ctx context.Context, filter string, fn func(Event)) error {
	consumer, err := s.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject: filter,
		DeliverPolicy: jetstream.DeliverAllPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	const batchSize = 1000
	malformed := 0
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			break
		}

		n := 0
		for msg := range msgs.Messages() {
			n++
			var event Event
			if err := json.Unmarshal(msg.Data(), &event); err != nil {
				malformed++
				_ = msg.Ack()
				continue
			}
			if event.ID == "" {
				if meta, err := msg.Metadata(); err == nil {
					event.ID = fmt.Sprintf("%d", meta.Sequence.Stream)
				}
			}
			fn(event)
			_ = msg.Ack()
		}

		if n < batchSize {
			break
		}
	}

	if malformed > 0 {
		logger.Warn("Skipped %d malformed events on %s", malformed, filter)
	}
	return nil
}
