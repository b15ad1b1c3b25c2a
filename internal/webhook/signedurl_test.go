package webhook

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNormalize_SignedURLReconstruction(t *testing.T) {
	n := newTestNormalizer()

	// The platform stripped the signature query string from the URL and
	// delivered the signing parameters as sibling keys.
	body, _ := json.Marshal(map[string]any{
		"tenantId": testTenant,
		"from":     testConversation,
		"message": map[string]any{
			"type": "audio",
			"url":  "https://cdn.example.com/audio-message/f81.ogg",
		},
		"X-Amz-Algorithm":     "AWS4-HMAC-SHA256",
		"X-Amz-Credential":    "AKIA123/20260827/eu-west-1/s3/aws4_request",
		"X-Amz-Date":          "20260827T101500Z",
		"X-Amz-Expires":       "3600",
		"X-Amz-SignedHeaders": "host",
		"X-Amz-Signature":     "deadbeefcafe",
	})

	ev := n.Normalize(body)
	if ev == nil {
		t.Fatalf("expected event, got nil")
	}
	for _, part := range []string{
		"https://cdn.example.com/audio-message/f81.ogg?",
		"X-Amz-Algorithm=AWS4-HMAC-SHA256",
		"X-Amz-Signature=deadbeefcafe",
		"X-Amz-Expires=3600",
	} {
		if !strings.Contains(ev.MediaURL, part) {
			t.Fatalf("media url %q missing %q", ev.MediaURL, part)
		}
	}
	// Parameters must come in canonical order, algorithm first.
	if !strings.HasPrefix(ev.MediaURL, "https://cdn.example.com/audio-message/f81.ogg?X-Amz-Algorithm=") {
		t.Fatalf("params not in canonical order: %q", ev.MediaURL)
	}
}

func TestNormalize_SynthesizesCanonicalURL(t *testing.T) {
	n := newTestNormalizer()

	// No URL anywhere, but tenant, sender, and message ids are known, so
	// the canonical storage path can be synthesized.
	body, _ := json.Marshal(map[string]any{
		"tenantId": testTenant,
		"from":     testConversation,
		"message": map[string]any{
			"type":     "image",
			"sender":   "34699111222",
			"id":       "WAMID-12345678",
			"mimetype": "image/jpeg",
		},
		"X-Amz-Signature": "deadbeefcafe",
		"X-Amz-Date":      "20260827T101500Z",
	})

	ev := n.Normalize(body)
	if ev == nil {
		t.Fatalf("expected event, got nil")
	}
	want := "https://media.example.com/media/" + testTenant + "/34699111222/WAMID-12345678"
	if !strings.HasPrefix(ev.MediaURL, want+"?") {
		t.Fatalf("media url = %q, want prefix %q", ev.MediaURL, want)
	}
	if !strings.Contains(ev.MediaURL, "X-Amz-Signature=deadbeefcafe") {
		t.Fatalf("signature missing from %q", ev.MediaURL)
	}
}

func TestNormalize_NoSignatureNoAppend(t *testing.T) {
	n := newTestNormalizer()

	// Partial signing parameters without a signature must not be appended.
	body, _ := json.Marshal(map[string]any{
		"tenantId": testTenant,
		"from":     testConversation,
		"message": map[string]any{
			"type": "audio",
			"url":  "https://cdn.example.com/audio-message/f81.ogg",
		},
		"X-Amz-Date": "20260827T101500Z",
	})

	ev := n.Normalize(body)
	if ev == nil {
		t.Fatalf("expected event, got nil")
	}
	if ev.MediaURL != "https://cdn.example.com/audio-message/f81.ogg" {
		t.Fatalf("media url = %q", ev.MediaURL)
	}
}
