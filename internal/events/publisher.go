package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/gearline-ai/parts-assistant/internal/model"
)

const (
	// StreamName is the name of the turn audit stream.
	StreamName = "TURNS"

	// SubjectPrefix is the prefix for all turn subjects.
	SubjectPrefix = "turns"
)

// TurnEvent is the audit record published after each processed turn.
type TurnEvent struct {
	TenantID       string          `json:"tenant_id"`
	ConversationID string          `json:"conversation_id"`
	EventType      model.EventType `json:"event_type"`
	Decision       *model.Decision `json:"decision"`
	ReplySent      bool            `json:"reply_sent"`
	ProcessedAt    time.Time       `json:"processed_at"`
}

// Publisher publishes turn events. A nil *Publisher is a no-op so callers
// never branch on whether audit publication is configured.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher on an established client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// EnsureStream creates the turn stream when it does not exist yet.
func (p *Publisher) EnsureStream(ctx context.Context) error {
	if p == nil {
		return nil
	}
	js := p.client.js

	if _, err := js.Stream(ctx, StreamName); err == nil {
		return nil
	}

	_, err := js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      30 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		Description: "Processed-turn audit events",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}
	return nil
}

// PublishTurn publishes one turn event. Failures are logged and swallowed.
func (p *Publisher) PublishTurn(ctx context.Context, ev *TurnEvent) {
	if p == nil {
		return
	}
	subject := fmt.Sprintf("%s.processed.%s", SubjectPrefix, ev.TenantID)

	data, err := json.Marshal(ev)
	if err != nil {
		p.client.logger.Error("failed to marshal turn event", zap.Error(err))
		return
	}
	if _, err := p.client.js.Publish(ctx, subject, data); err != nil {
		p.client.logger.Warn("failed to publish turn event",
			zap.String("subject", subject),
			zap.Error(err),
		)
	}
}
