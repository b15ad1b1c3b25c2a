package webhook

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/gearline-ai/parts-assistant/internal/model"
	"github.com/gearline-ai/parts-assistant/pkg/logger"
)

const (
	testTenant       = "3f1c2a9e-8b4d-4c6f-9a21-7d5e0b6c4a18"
	testConversation = "34699111222@s.whatsapp.net"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer("https://media.example.com/media", logger.NewNop())
}

func directBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"tenantId": testTenant,
		"from":     testConversation,
		"message": map[string]any{
			"type": "text",
			"text": "need brake pads for my car",
		},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return body
}

func TestNormalize_DirectObject(t *testing.T) {
	n := newTestNormalizer()

	ev := n.Normalize(directBody(t))
	if ev == nil {
		t.Fatalf("expected event, got nil")
	}
	if ev.TenantID != testTenant {
		t.Fatalf("tenant = %q", ev.TenantID)
	}
	if ev.ConversationID != testConversation {
		t.Fatalf("conversation = %q", ev.ConversationID)
	}
	if ev.Type != model.EventTypeText {
		t.Fatalf("type = %q", ev.Type)
	}
	if ev.Text != "need brake pads for my car" {
		t.Fatalf("text = %q", ev.Text)
	}
}

// The same logical event must normalize identically whether delivered as a
// direct object, as the whole JSON serialized into an object key, or as a
// doubly-escaped string with a leading formula-escape prefix.
func TestNormalize_EquivalentShapes(t *testing.T) {
	n := newTestNormalizer()
	want := n.Normalize(directBody(t))
	if want == nil {
		t.Fatalf("direct shape did not normalize")
	}

	// Shape (b): entire payload serialized as an object key with an empty
	// value, the forms-encoding artifact.
	asKey, err := json.Marshal(map[string]string{string(directBody(t)): ""})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	// Shape (c): message field is a doubly-escaped JSON string with a
	// leading "=".
	escaped := `{"tenantId":"` + testTenant + `","from":"` + testConversation + `",` +
		`"message":"={\\\"type\\\":\\\"text\\\",\\\"text\\\":\\\"need brake pads for my car\\\"}"}`

	for name, body := range map[string][]byte{
		"json-as-key":    asKey,
		"escaped-string": []byte(escaped),
	} {
		got := n.Normalize(body)
		if got == nil {
			t.Fatalf("%s: normalize returned nil", name)
		}
		if *got != *want {
			t.Fatalf("%s: got %+v, want %+v", name, got, want)
		}
	}
}

func TestNormalize_FormEncodedBody(t *testing.T) {
	n := newTestNormalizer()

	form := url.Values{}
	form.Set(string(directBody(t)), "")

	ev := n.Normalize([]byte(form.Encode()))
	if ev == nil {
		t.Fatalf("expected event, got nil")
	}
	if ev.Text != "need brake pads for my car" {
		t.Fatalf("text = %q", ev.Text)
	}
}

func TestNormalize_HeuristicRecovery(t *testing.T) {
	n := newTestNormalizer()

	// Broken JSON: unbalanced braces, escaped quotes, no structure to
	// parse. The heuristic layer must still find the ids and the URL.
	body := `POST garbage tenant=` + testTenant + ` remoteJid=` + testConversation +
		` {\"mediaUrl\": \"https:\/\/cdn.example.com\/audio-message\/f81.ogg\", broken`

	ev := n.Normalize([]byte(body))
	if ev == nil {
		t.Fatalf("expected event, got nil")
	}
	if ev.TenantID != testTenant {
		t.Fatalf("tenant = %q", ev.TenantID)
	}
	if ev.Type != model.EventTypeAudio {
		t.Fatalf("type = %q, want audio from URL marker", ev.Type)
	}
	if ev.MediaURL != "https://cdn.example.com/audio-message/f81.ogg" {
		t.Fatalf("media url = %q", ev.MediaURL)
	}
}

func TestNormalize_TypeClassificationPriority(t *testing.T) {
	n := newTestNormalizer()

	cases := []struct {
		name string
		msg  map[string]any
		want model.EventType
	}{
		{
			name: "explicit type wins over mime",
			msg:  map[string]any{"type": "audio", "mimetype": "image/jpeg", "url": "https://x.example/a"},
			want: model.EventTypeAudio,
		},
		{
			name: "mime prefix",
			msg:  map[string]any{"mimetype": "image/jpeg", "url": "https://x.example/a"},
			want: model.EventTypeImage,
		},
		{
			name: "url marker",
			msg:  map[string]any{"url": "https://x.example/image-message/a.jpg"},
			want: model.EventTypeImage,
		},
		{
			name: "default text",
			msg:  map[string]any{"text": "hello"},
			want: model.EventTypeText,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(map[string]any{
				"tenantId": testTenant,
				"from":     testConversation,
				"message":  tc.msg,
			})
			ev := n.Normalize(body)
			if ev == nil {
				t.Fatalf("normalize returned nil")
			}
			if ev.Type != tc.want {
				t.Fatalf("type = %q, want %q", ev.Type, tc.want)
			}
		})
	}
}

func TestNormalize_RejectsInvalidEvents(t *testing.T) {
	n := newTestNormalizer()

	cases := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"no recoverable ids", `{"hello":"world"}`},
		{
			"bad tenant uuid",
			`{"tenantId":"not-a-uuid","from":"` + testConversation + `","message":{"text":"hi"}}`,
		},
		{
			"conversation without domain marker",
			`{"tenantId":"` + testTenant + `","from":"34699111222","message":{"text":"hi"}}`,
		},
		{
			"conversation too short",
			`{"tenantId":"` + testTenant + `","from":"1@x","message":{"text":"hi"}}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if ev := n.Normalize([]byte(tc.body)); ev != nil {
				t.Fatalf("expected nil, got %+v", ev)
			}
		})
	}
}

func TestNormalize_AudioFields(t *testing.T) {
	n := newTestNormalizer()

	body, _ := json.Marshal(map[string]any{
		"tenantId": testTenant,
		"from":     testConversation,
		"message": map[string]any{
			"type":     "audio",
			"url":      "https://cdn.example.com/audio-message/f81.ogg",
			"mimetype": "audio/ogg; codecs=opus",
			"seconds":  17,
		},
	})
	ev := n.Normalize(body)
	if ev == nil {
		t.Fatalf("expected event, got nil")
	}
	if ev.Type != model.EventTypeAudio {
		t.Fatalf("type = %q", ev.Type)
	}
	if ev.DurationSec != 17 {
		t.Fatalf("duration = %d", ev.DurationSec)
	}
	if ev.Text != "" {
		t.Fatalf("audio event should not carry text, got %q", ev.Text)
	}
}
