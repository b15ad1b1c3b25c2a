package webhook

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gearline-ai/parts-assistant/internal/model"
	"github.com/gearline-ai/parts-assistant/pkg/logger"
)

const minConversationIDLen = 8

// Normalizer turns raw webhook bodies into validated inbound events.
type Normalizer struct {
	// storageBase is the media storage root used to synthesize canonical
	// URLs when the payload carries signing parameters but no URL.
	storageBase string

	chain  []extractor
	logger *logger.Logger
}

// NewNormalizer creates a normalizer with the full extractor chain.
func NewNormalizer(storageBase string, log *logger.Logger) *Normalizer {
	return &Normalizer{
		storageBase: storageBase,
		chain: []extractor{
			directExtractor{},
			jsonKeyExtractor{},
			stringMessageExtractor{},
			heuristicExtractor{},
		},
		logger: log,
	}
}

// Normalize recovers a typed event from an arbitrary wire body. It never
// returns an error: any body no extractor can recover, and any recovered
// event that fails validation, yields nil and is meant to be ignored.
func (n *Normalizer) Normalize(body []byte) *model.InboundEvent {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	p := parsePayload(body)

	var d *draft
	for _, ex := range n.chain {
		if got, ok := ex.extract(p); ok {
			n.logger.Debug("payload recovered",
				zap.String("extractor", ex.name()),
				zap.String("tenant_id", got.tenantID),
			)
			d = got
			break
		}
	}
	if d == nil {
		return nil
	}
	if d.leftover != "" {
		d.enrichFrom(unescapeBrokenJSON(d.leftover))
	}

	repairMediaURL(d, p, n.storageBase)
	eventType := classify(d)

	ev := &model.InboundEvent{
		TenantID:       d.tenantID,
		ConversationID: d.conversationID,
		SenderID:       d.senderID,
		MessageID:      d.messageID,
		Type:           eventType,
		Caption:        d.caption,
		DurationSec:    d.durationSec,
	}
	switch eventType {
	case model.EventTypeText:
		ev.Text = d.text
	default:
		ev.MediaURL = d.mediaURL
		ev.MimeType = d.mimeType
	}

	if err := validate(ev); err != nil {
		n.logger.Debug("normalized event rejected",
			zap.String("tenant_id", ev.TenantID),
			zap.Error(err),
		)
		return nil
	}
	return ev
}

func validate(ev *model.InboundEvent) error {
	if _, err := uuid.Parse(ev.TenantID); err != nil {
		return errBadTenantID
	}
	if len(ev.ConversationID) < minConversationIDLen || !strings.Contains(ev.ConversationID, "@") {
		return errBadConversationID
	}
	if !ev.Type.Valid() {
		return errBadType
	}
	return nil
}

type normalizeError string

func (e normalizeError) Error() string { return string(e) }

const (
	errBadTenantID       = normalizeError("tenant id is not a valid UUID")
	errBadConversationID = normalizeError("conversation id is missing or malformed")
	errBadType           = normalizeError("unsupported event type")
)
