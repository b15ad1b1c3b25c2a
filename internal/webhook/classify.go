package webhook

import (
	"strings"

	"github.com/gearline-ai/parts-assistant/internal/model"
)

// classify decides text vs audio vs image. Priority: explicit discriminator
// field, MIME-type prefix, path-segment marker in the candidate URL, then
// default to text.
func classify(d *draft) model.EventType {
	switch d.explicitType {
	case "text", "chat", "conversation":
		return model.EventTypeText
	case "audio", "ptt", "voice":
		return model.EventTypeAudio
	case "image", "photo", "sticker":
		return model.EventTypeImage
	}

	switch {
	case strings.HasPrefix(d.mimeType, "audio/"):
		return model.EventTypeAudio
	case strings.HasPrefix(d.mimeType, "image/"):
		return model.EventTypeImage
	}

	lower := strings.ToLower(d.mediaURL)
	switch {
	case strings.Contains(lower, "audio-message"):
		return model.EventTypeAudio
	case strings.Contains(lower, "image-message"):
		return model.EventTypeImage
	}

	return model.EventTypeText
}
