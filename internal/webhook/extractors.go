package webhook

import (
	"encoding/json"
	"regexp"
	"strings"
)

// draft is an extractor's partially recovered event, before type
// classification, signed-URL repair, and validation.
type draft struct {
	tenantID       string
	conversationID string
	senderID       string
	messageID      string

	explicitType string
	text         string
	mediaURL     string
	mimeType     string
	caption      string
	durationSec  int

	// leftover carries unparsable message text forward so the heuristic
	// layer can still mine it.
	leftover string
}

// extractor is one recovery strategy. Each either produces a definite draft
// or reports no-match; the chain tries them in order.
type extractor interface {
	name() string
	extract(p *payload) (*draft, bool)
}

var (
	tenantKeys       = []string{"tenantId", "tenant_id", "instanceId", "instance_id", "instance"}
	conversationKeys = []string{"from", "conversationId", "conversation_id", "remoteJid", "remote_jid", "chatId", "chat_id"}
	messageKeys      = []string{"message", "data", "payload"}
)

// fillFromMessage copies the message-object fields shared by every
// structured shape.
func (d *draft) fillFromMessage(msg map[string]any) {
	d.explicitType = strings.ToLower(stringField(msg, "type", "messageType", "message_type"))
	d.text = stringField(msg, "text", "body", "conversation")
	d.mediaURL = stringField(msg, "mediaUrl", "media_url", "url")
	d.mimeType = stringField(msg, "mimetype", "mimeType", "mime_type")
	d.caption = stringField(msg, "caption")
	d.durationSec = intField(msg, "seconds", "duration")
	if d.senderID == "" {
		d.senderID = stringField(msg, "sender", "senderId", "sender_id", "participant")
	}
	if d.messageID == "" {
		d.messageID = stringField(msg, "id", "messageId", "message_id")
	}
}

// directExtractor accepts bodies that already expose the three required
// top-level fields with a structured message object.
type directExtractor struct{}

func (directExtractor) name() string { return "direct" }

func (directExtractor) extract(p *payload) (*draft, bool) {
	if p.doc == nil {
		return nil, false
	}
	return extractStructured(p.doc)
}

func extractStructured(doc map[string]any) (*draft, bool) {
	tenant := stringField(doc, tenantKeys...)
	conversation := stringField(doc, conversationKeys...)
	msg := mapField(doc, messageKeys...)
	if tenant == "" || conversation == "" || msg == nil {
		return nil, false
	}
	d := &draft{tenantID: tenant, conversationID: conversation}
	d.senderID = stringField(doc, "sender", "senderId", "sender_id")
	d.messageID = stringField(doc, "messageId", "message_id")
	d.fillFromMessage(msg)
	return d, true
}

// jsonKeyExtractor recovers the forms-encoding artifact where the entire
// JSON payload arrives serialized as a single object key with an empty
// value.
type jsonKeyExtractor struct{}

func (jsonKeyExtractor) name() string { return "json-as-key" }

func (jsonKeyExtractor) extract(p *payload) (*draft, bool) {
	if p.doc == nil {
		return nil, false
	}
	for k, v := range p.doc {
		trimmed := strings.TrimSpace(k)
		if !strings.HasPrefix(trimmed, "{") {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			continue
		}
		var inner map[string]any
		if err := json.Unmarshal([]byte(trimmed), &inner); err != nil {
			continue
		}
		if d, ok := extractStructured(inner); ok {
			return d, true
		}
	}
	return nil, false
}

// stringMessageExtractor handles bodies whose message field is itself a
// string, optionally prefixed with a formula-escape character. A parsable
// string becomes a structured message; an unparsable one is retained for
// the heuristic layer instead of being discarded.
type stringMessageExtractor struct{}

func (stringMessageExtractor) name() string { return "string-message" }

func (stringMessageExtractor) extract(p *payload) (*draft, bool) {
	if p.doc == nil {
		return nil, false
	}
	tenant := stringField(p.doc, tenantKeys...)
	conversation := stringField(p.doc, conversationKeys...)

	var rawMsg string
	for _, k := range messageKeys {
		if s, ok := p.doc[k].(string); ok && strings.TrimSpace(s) != "" {
			rawMsg = strings.TrimSpace(s)
			break
		}
	}
	if rawMsg == "" {
		return nil, false
	}
	rawMsg = strings.TrimPrefix(rawMsg, "=")

	var msg map[string]any
	if err := json.Unmarshal([]byte(rawMsg), &msg); err != nil {
		// One layer of backslash escaping is common; undo it and retry
		// before falling back to heuristics.
		if err := json.Unmarshal([]byte(unescapeBrokenJSON(rawMsg)), &msg); err != nil {
			if tenant == "" || conversation == "" {
				return nil, false
			}
			// Broken JSON: keep the raw string so heuristics can mine it.
			return &draft{tenantID: tenant, conversationID: conversation, leftover: rawMsg}, true
		}
	}
	if tenant == "" || conversation == "" {
		// The envelope may live inside the reparsed string itself.
		if d, ok := extractStructured(msg); ok {
			return d, true
		}
		return nil, false
	}
	d := &draft{tenantID: tenant, conversationID: conversation}
	d.fillFromMessage(msg)
	return d, true
}

var (
	uuidPattern         = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
	conversationPattern = regexp.MustCompile(`[0-9]{6,20}(?::[0-9]{1,3})?@[a-z][a-z0-9.\-]+`)
	urlPattern          = regexp.MustCompile(`https?://[^\s"'<>\\]+`)
	mimePattern         = regexp.MustCompile(`(?i)mime[_ ]?type["':=\s]+([a-z]+/[a-z0-9.+\-]+)`)
	senderPattern       = regexp.MustCompile(`(?i)(?:sender|participant)(?:_?id)?["':=\s]+([0-9]{6,20})`)
	messageIDPattern    = regexp.MustCompile(`(?i)(?:message_?id|"id")["':=\s]+"?([A-Za-z0-9\-]{8,64})`)
	textPattern         = regexp.MustCompile(`(?i)(?:"text"|"body"|"conversation"|\btext=|\bbody=)\s*[:=]?\s*"?((?:[^"\\\n]|\\.)+)`)
)

// heuristicExtractor is the last resort: targeted pattern search over the
// raw body and the flattened key/value pairs. It fires whenever it can find
// a tenant id and a conversation id at all.
type heuristicExtractor struct{}

func (heuristicExtractor) name() string { return "heuristic" }

func (heuristicExtractor) extract(p *payload) (*draft, bool) {
	text := unescapeBrokenJSON(p.searchText())

	tenant := uuidPattern.FindString(text)
	conversation := conversationPattern.FindString(text)
	if tenant == "" || conversation == "" {
		return nil, false
	}

	d := &draft{tenantID: tenant, conversationID: conversation}
	d.enrichFrom(text)
	return d, true
}

// enrichFrom fills the draft's secondary fields from free text. Also used
// to mine a string-extractor leftover.
func (d *draft) enrichFrom(text string) {
	if m := senderPattern.FindStringSubmatch(text); m != nil && d.senderID == "" {
		d.senderID = m[1]
	}
	if m := messageIDPattern.FindStringSubmatch(text); m != nil && d.messageID == "" {
		d.messageID = m[1]
	}
	if m := mimePattern.FindStringSubmatch(text); m != nil && d.mimeType == "" {
		d.mimeType = strings.ToLower(m[1])
	}
	if d.mediaURL == "" {
		if u := urlPattern.FindString(text); u != "" {
			d.mediaURL = strings.TrimRight(u, `.,;)"'`)
		}
	}
	if d.text == "" && d.mediaURL == "" {
		if m := textPattern.FindStringSubmatch(text); m != nil {
			d.text = strings.TrimSpace(strings.TrimRight(m[1], `"`))
		}
	}
}

// unescapeBrokenJSON undoes one layer of backslash escaping so patterns can
// match inside embedded, broken JSON strings.
func unescapeBrokenJSON(s string) string {
	r := strings.NewReplacer(`\"`, `"`, `\/`, `/`, `\\`, `\`)
	return r.Replace(s)
}
