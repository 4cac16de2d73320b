package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/areaselector/internal/core/domain"
)

// Subscriber implements ports.InputSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// settlement is how a consumed input message is finished.
type settlement int

const (
	settleAck settlement = iota
	settleTerm
)

// settleInput decodes and applies one input message. Input events change
// editor state and are not idempotent, so every decodable message is acked
// exactly once whatever the handler returns; only undecodable ones are
// terminated.
func settleInput(ctx context.Context, data []byte, handler func(ctx context.Context, ev *domain.InputEvent) error) settlement {
	var ev domain.InputEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		slog.WarnContext(ctx, "dropping malformed input event", "error", err)
		return settleTerm
	}
	if err := handler(ctx, &ev); err != nil {
		if domain.IsClientError(err) {
			slog.InfoContext(ctx, "input event rejected", "kind", ev.Kind, "error", err)
		} else {
			slog.ErrorContext(ctx, "input event failed", "kind", ev.Kind, "error", err)
		}
	}
	return settleAck
}

// SubscribeInput consumes forwarded input events on a durable consumer.
func (s *Subscriber) SubscribeInput(ctx context.Context, handler func(ctx context.Context, ev *domain.InputEvent) error) error {
	sub, err := s.js.Subscribe(SubjectInputAll, func(msg *nats.Msg) {
		switch settleInput(ctx, msg.Data, handler) {
		case settleTerm:
			_ = msg.Term()
		default:
			_ = msg.Ack()
		}
	},
		nats.Durable("input-dispatcher"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
