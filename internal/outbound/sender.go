// Package outbound posts reply text to the messaging gateway.
package outbound

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Sender delivers one text message to a conversation.
type Sender interface {
	Send(ctx context.Context, tenantID, conversationID, text string) error
}

// HTTPSender talks to the gateway's REST API.
type HTTPSender struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewHTTPSender creates a gateway sender. timeout bounds every call.
func NewHTTPSender(baseURL, token string, timeout time.Duration) *HTTPSender {
	return &HTTPSender{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

type sendRequest struct {
	TenantID string `json:"tenant_id"`
	To       string `json:"to"`
	Text     string `json:"text"`
}

// Send posts the message. The caller passes the conversation id already
// stripped of its device suffix.
func (s *HTTPSender) Send(ctx context.Context, tenantID, conversationID, text string) error {
	if conversationID == "" || text == "" {
		return fmt.Errorf("recipient and text cannot be empty")
	}

	payload, err := json.Marshal(sendRequest{
		TenantID: tenantID,
		To:       conversationID,
		Text:     text,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/messages/text", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	res, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		return fmt.Errorf("gateway returned %s: %s", res.Status, string(body))
	}
	return nil
}
