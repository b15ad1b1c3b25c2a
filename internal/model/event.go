package model

// EventType represents the kind of inbound message payload.
type EventType string

const (
	EventTypeText  EventType = "text"
	EventTypeAudio EventType = "audio"
	EventTypeImage EventType = "image"
)

// Valid reports whether t is one of the enumerated event types.
func (t EventType) Valid() bool {
	switch t {
	case EventTypeText, EventTypeAudio, EventTypeImage:
		return true
	}
	return false
}

// InboundEvent is the typed result of webhook payload normalization.
// Nothing downstream of the normalizer ever sees the raw wire payload again.
type InboundEvent struct {
	TenantID       string    `json:"tenant_id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id,omitempty"`
	MessageID      string    `json:"message_id,omitempty"`
	Type           EventType `json:"type"`

	// Text is the message body for text events.
	Text string `json:"text,omitempty"`

	// MediaURL points at the audio or image content. May be empty even for
	// media events when no URL could be recovered.
	MediaURL string `json:"media_url,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	Caption  string `json:"caption,omitempty"`

	// DurationSec is the declared audio length, when the payload carried one.
	DurationSec int `json:"duration_sec,omitempty"`
}
