// Package catalog ranks part-family candidates for free text by embedding
// cosine similarity against a process-wide catalog cache.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gearline-ai/parts-assistant/internal/llm"
	"github.com/gearline-ai/parts-assistant/internal/model"
	"github.com/gearline-ai/parts-assistant/pkg/logger"
	"github.com/gearline-ai/parts-assistant/pkg/metrics"
)

// DefaultStaleAfter is the catalog cache staleness window.
const DefaultStaleAfter = 10 * time.Minute

// Matcher scores catalog entries against query embeddings. The entry cache
// is shared, read-mostly state refreshed when older than staleAfter or on
// explicit force; concurrent refreshes are not deduplicated, since
// overwriting with an equivalent snapshot is idempotent.
type Matcher struct {
	repo       Repository
	embedder   llm.Embedder
	staleAfter time.Duration
	logger     *logger.Logger

	mu       sync.RWMutex
	entries  []model.CatalogEntry
	loadedAt time.Time
}

// NewMatcher creates a matcher. staleAfter <= 0 selects the default window.
func NewMatcher(repo Repository, embedder llm.Embedder, staleAfter time.Duration, log *logger.Logger) *Matcher {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &Matcher{
		repo:       repo,
		embedder:   embedder,
		staleAfter: staleAfter,
		logger:     log,
	}
}

// Refresh reloads the entry cache from the repository when it is stale, or
// unconditionally when force is set.
func (m *Matcher) Refresh(ctx context.Context, force bool) error {
	m.mu.RLock()
	fresh := !force && time.Since(m.loadedAt) < m.staleAfter && m.entries != nil
	m.mu.RUnlock()
	if fresh {
		return nil
	}

	entries, err := m.repo.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("catalog refresh failed: %w", err)
	}

	m.mu.Lock()
	m.entries = entries
	m.loadedAt = time.Now()
	m.mu.Unlock()

	metrics.CatalogRefreshes.Inc()
	metrics.CatalogEntries.Set(float64(len(entries)))
	m.logger.Info("catalog cache refreshed",
		zap.Int("entries", len(entries)),
		zap.Bool("forced", force),
	)
	return nil
}

// Snapshot returns the cached entry count and load time, for the admin
// surface.
func (m *Matcher) Snapshot() (int, time.Time) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), m.loadedAt
}

// Match embeds text and returns the topK catalog entries by descending
// cosine similarity. Ties keep the catalog's original relative order.
func (m *Matcher) Match(ctx context.Context, text string, topK int) ([]model.PartMatch, error) {
	if topK <= 0 {
		return nil, nil
	}
	if err := m.Refresh(ctx, false); err != nil {
		// A stale cache still serves; an empty one cannot.
		m.mu.RLock()
		empty := len(m.entries) == 0
		m.mu.RUnlock()
		if empty {
			return nil, err
		}
		m.logger.Warn("serving matches from stale catalog cache", zap.Error(err))
	}

	start := time.Now()
	query, err := m.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("query embedding failed: %w", err)
	}
	metrics.EmbeddingDuration.Observe(time.Since(start).Seconds())

	m.mu.RLock()
	entries := m.entries
	m.mu.RUnlock()

	matches := make([]model.PartMatch, 0, len(entries))
	for _, e := range entries {
		matches = append(matches, model.PartMatch{
			FamilyID: e.ID,
			Name:     e.Name,
			Score:    CosineSimilarity(query, e.Embedding),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}
