// Package webhook recovers typed inbound events from the messaging
// platform's wire payloads. Deliveries for the same logical event arrive in
// several structurally different shapes, some of them broken JSON; the
// normalizer runs an ordered chain of extractors and hands the rest of the
// pipeline either a validated event or nothing.
package webhook

import (
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// payload is the parsed-as-far-as-possible view of one delivery body.
type payload struct {
	// raw is the body as received.
	raw string

	// doc is the top-level JSON object, nil when the body is not a JSON
	// object (form bodies are converted to a flat object first).
	doc map[string]any

	// flat is every key/value pair of doc, recursively, joined as
	// "key=value" lines. Heuristic extraction searches raw and flat both,
	// because some platforms move inline fields into sibling form keys.
	flat string
}

func parsePayload(body []byte) *payload {
	p := &payload{raw: string(body)}

	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err == nil {
		p.doc = doc
	} else if vals, err := url.ParseQuery(strings.TrimSpace(p.raw)); err == nil && len(vals) > 0 {
		form := make(map[string]any, len(vals))
		for k, vs := range vals {
			if len(vs) > 0 {
				form[k] = vs[0]
			} else {
				form[k] = ""
			}
		}
		if len(form) > 0 {
			p.doc = form
		}
	}

	if p.doc != nil {
		var b strings.Builder
		flatten("", p.doc, &b)
		p.flat = b.String()
	}
	return p
}

// flatten writes every nested key/value pair as one "key=value" line,
// in sorted key order so extraction is deterministic.
func flatten(prefix string, v any, b *strings.Builder) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flatten(key, val[k], b)
		}
	case []any:
		for i, item := range val {
			flatten(prefix+"."+strconv.Itoa(i), item, b)
		}
	case string:
		b.WriteString(prefix)
		b.WriteByte('=')
		b.WriteString(val)
		b.WriteByte('\n')
	case float64:
		b.WriteString(prefix)
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(val, 'f', -1, 64))
		b.WriteByte('\n')
	case bool:
		b.WriteString(prefix)
		b.WriteByte('=')
		b.WriteString(strconv.FormatBool(val))
		b.WriteByte('\n')
	}
}

// searchText returns the concatenation heuristics operate on.
func (p *payload) searchText() string {
	if p.flat == "" {
		return p.raw
	}
	return p.raw + "\n" + p.flat
}

// stringField returns the first non-empty string value among the given keys.
func stringField(doc map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := doc[k]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// intField returns the first numeric value among the given keys.
func intField(doc map[string]any, keys ...string) int {
	for _, k := range keys {
		switch v := doc[k].(type) {
		case float64:
			return int(v)
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n
			}
		}
	}
	return 0
}

// mapField returns the first map value among the given keys.
func mapField(doc map[string]any, keys ...string) map[string]any {
	for _, k := range keys {
		if m, ok := doc[k].(map[string]any); ok {
			return m
		}
	}
	return nil
}
