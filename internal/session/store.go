package session

import (
	"context"
	"encoding/json"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/gearline-ai/parts-assistant/internal/model"
	"github.com/gearline-ai/parts-assistant/pkg/logger"
)

const keyPrefix = "session:"

// deviceSuffix matches the numeric device suffix the platform appends to
// the conversation id before the domain marker ("123456789:12@host").
// Sessions for all devices of one chat share a key.
var deviceSuffix = regexp.MustCompile(`:[0-9]+@`)

// Store loads and saves sessions. Load never fails its caller and Save is
// best-effort: losing session continuity degrades a turn, it must not
// break it.
type Store struct {
	cache       Cache
	ttl         time.Duration
	maxMessages int
	logger      *logger.Logger
}

// NewStore creates a session store. ttl is the sliding expiry applied on
// every save; maxMessages caps retained conversation history.
func NewStore(cache Cache, ttl time.Duration, maxMessages int, log *logger.Logger) *Store {
	return &Store{
		cache:       cache,
		ttl:         ttl,
		maxMessages: maxMessages,
		logger:      log,
	}
}

// MaxMessages returns the retention cap applied after each append.
func (s *Store) MaxMessages() int { return s.maxMessages }

// Key builds the storage key for a tenant/conversation pair, stripping the
// device suffix so concurrent devices land on the same session.
func Key(tenantID, conversationID string) string {
	return keyPrefix + tenantID + ":" + StripDeviceSuffix(conversationID)
}

// StripDeviceSuffix removes the ":<digits>" device marker that precedes the
// domain part of a conversation id.
func StripDeviceSuffix(conversationID string) string {
	return deviceSuffix.ReplaceAllString(conversationID, "@")
}

// Load returns the session for the key, or a fresh empty session on a
// miss, a cache fault, or an unparsable stored blob.
func (s *Store) Load(ctx context.Context, tenantID, conversationID string) *model.Session {
	key := Key(tenantID, conversationID)

	blob, err := s.cache.Get(ctx, key)
	if err != nil {
		if err != ErrMiss {
			s.logger.Warn("session load failed, starting fresh",
				zap.String("key", key),
				zap.Error(err),
			)
		}
		return &model.Session{}
	}

	var sess model.Session
	if err := json.Unmarshal(blob, &sess); err != nil {
		s.logger.Warn("session blob unparsable, starting fresh",
			zap.String("key", key),
			zap.Error(err),
		)
		return &model.Session{}
	}
	return &sess
}

// Save persists the session and resets its sliding TTL. Storage faults are
// logged and swallowed.
func (s *Store) Save(ctx context.Context, tenantID, conversationID string, sess *model.Session) {
	key := Key(tenantID, conversationID)

	if s.maxMessages > 0 && len(sess.Messages) > s.maxMessages {
		sess.Messages = sess.Messages[len(sess.Messages)-s.maxMessages:]
	}

	blob, err := json.Marshal(sess)
	if err != nil {
		s.logger.Error("session marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, blob, s.ttl); err != nil {
		s.logger.Warn("session save failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}
