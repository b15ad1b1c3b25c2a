// Package handler exposes the HTTP surface: the inbound webhook, health
// checks, and the authenticated admin endpoints.
package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/gearline-ai/parts-assistant/internal/pipeline"
	"github.com/gearline-ai/parts-assistant/internal/webhook"
	"github.com/gearline-ai/parts-assistant/pkg/logger"
	"github.com/gearline-ai/parts-assistant/pkg/metrics"
)

const maxBodyBytes = 1 << 20

// WebhookHandler handles inbound platform deliveries.
type WebhookHandler struct {
	normalizer  *webhook.Normalizer
	processor   *pipeline.Processor
	turnTimeout time.Duration
	logger      *logger.Logger
}

// NewWebhookHandler creates a webhook handler. turnTimeout bounds the
// detached processing of one delivery.
func NewWebhookHandler(n *webhook.Normalizer, p *pipeline.Processor, turnTimeout time.Duration, log *logger.Logger) *WebhookHandler {
	if turnTimeout <= 0 {
		turnTimeout = 60 * time.Second
	}
	return &WebhookHandler{
		normalizer:  n,
		processor:   p,
		turnTimeout: turnTimeout,
		logger:      log,
	}
}

type webhookResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Receive handles POST /webhooks/inbound. It always acknowledges with 2xx:
// a malformed or invalid delivery is reported as ignored, never as an
// error, so the platform does not retry-storm us with the same broken
// payload.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("ignored", "unreadable_body").Inc()
		writeJSON(w, http.StatusOK, webhookResponse{Status: "ignored", Reason: "unreadable_body"})
		return
	}

	ev := h.normalizer.Normalize(body)
	if ev == nil {
		metrics.WebhookEvents.WithLabelValues("ignored", "unrecoverable_payload").Inc()
		writeJSON(w, http.StatusOK, webhookResponse{Status: "ignored", Reason: "unrecoverable_payload"})
		return
	}

	metrics.WebhookEvents.WithLabelValues("processed", string(ev.Type)).Inc()

	// Acknowledgment is independent of the turn's outcome; the rest of the
	// pipeline runs detached from the request.
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				h.logger.Error("recovered from panic in turn processing",
					zap.Any("panic", rec),
					zap.String("tenant_id", ev.TenantID),
				)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), h.turnTimeout)
		defer cancel()
		h.processor.ProcessEvent(ctx, ev)
	}()

	writeJSON(w, http.StatusOK, webhookResponse{Status: "processed"})
}
