package advisory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/sebasr/ecosense-service/internal/metrics"
	"github.com/sebasr/ecosense-service/internal/models"
)

// Store is a key/value store with expiry
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CachedService reuses advisories for readings that render the same prompt.
// Degraded answers are never stored.
type CachedService struct {
	next   Service
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedService wraps next with a cache held in store
func NewCachedService(next Service, store Store, ttl time.Duration, logger *slog.Logger) *CachedService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedService{next: next, store: store, ttl: ttl, logger: logger}
}

// GetAdvisory implements Service
func (s *CachedService) GetAdvisory(ctx context.Context, reading models.Reading, activityLevel int) string {
	key := CacheKey(reading, activityLevel)

	text, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Warn("advisory cache read failed", "key", key, "err", err)
	} else if ok {
		metrics.AdvisoryRequests.WithLabelValues(s.next.Source(), "cache_hit").Inc()
		return text
	}

	text = s.next.GetAdvisory(ctx, reading, activityLevel)
	if IsDegraded(text) {
		return text
	}
	if err := s.store.Set(ctx, key, text, s.ttl); err != nil {
		s.logger.Warn("advisory cache write failed", "key", key, "err", err)
	}
	return text
}

// Source implements Service
func (s *CachedService) Source() string { return s.next.Source() }

// CacheKey derives the cache key from the rendered prompt, so readings that
// differ only below the prompt's precision share an entry.
func CacheKey(reading models.Reading, activityLevel int) string {
	sum := sha256.Sum256([]byte(BuildPrompt(reading, activityLevel)))
	return "advisory:" + hex.EncodeToString(sum[:])
}
