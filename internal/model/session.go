package model

import (
	"time"
)

// Session is the per-conversation state shared across deliveries. It is
// serialized as a single blob per session key; see internal/session for the
// keying and TTL rules.
type Session struct {
	Messages []Message `json:"messages"`

	Vehicle *Vehicle `json:"vehicle,omitempty"`

	// PartMatches is the cached top-K result of the last catalog match,
	// together with a sample of the text that produced it.
	PartMatches    []PartMatch `json:"part_matches,omitempty"`
	PartMatchQuery string      `json:"part_match_query,omitempty"`
	PartMatchedAt  time.Time   `json:"part_matched_at,omitempty"`

	SelectedProduct     *Product  `json:"selected_product,omitempty"`
	ProductAlternatives []Product `json:"product_alternatives,omitempty"`
}

// Append adds a message and evicts the oldest entries beyond maxMessages.
func (s *Session) Append(role Role, content string, maxMessages int) {
	s.Messages = append(s.Messages, Message{
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
	if maxMessages > 0 && len(s.Messages) > maxMessages {
		s.Messages = s.Messages[len(s.Messages)-maxMessages:]
	}
}

// Window returns the newest n messages, oldest first. It is the slice handed
// to the reply generator and is independent of the retention cap.
func (s *Session) Window(n int) []Message {
	if n <= 0 || len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}
