// internal/recommender/service.go
package recommender

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"assessment-recommender/internal/common/logger"
	"assessment-recommender/internal/common/metrics"
)

const cacheKeyPrefix = "recommender:results:"

// resultCache is the slice of the Redis client the service needs.
type resultCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// Service fronts the engine with an optional Redis result cache so repeated
// queries skip embedding and ranking entirely.
type Service struct {
	engine *Engine
	cache  resultCache
	ttl    time.Duration
	logger logger.Logger
}

// NewService builds a service. A nil cache disables caching.
func NewService(engine *Engine, cache resultCache, ttl time.Duration, log logger.Logger) *Service {
	return &Service{
		engine: engine,
		cache:  cache,
		ttl:    ttl,
		logger: log,
	}
}

func (s *Service) Engine() *Engine { return s.engine }

func (s *Service) Recommend(ctx context.Context, query string) ([]Recommendation, error) {
	if s.cache == nil {
		return s.engine.Recommend(ctx, query)
	}

	key := resultKey(query)
	if cached, ok := s.lookup(ctx, key); ok {
		metrics.CacheHits.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.CacheHits.WithLabelValues("miss").Inc()

	results, err := s.engine.Recommend(ctx, query)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, results)
	return results, nil
}

func (s *Service) lookup(ctx context.Context, key string) ([]Recommendation, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if err != goredis.Nil {
			s.logger.Warn("result cache read failed", map[string]interface{}{"error": err.Error()})
		}
		return nil, false
	}

	var results []Recommendation
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		s.logger.Warn("result cache entry corrupt, ignoring", map[string]interface{}{"key": key})
		return nil, false
	}
	return results, true
}

// store is best-effort: a cache write failure never fails the request.
func (s *Service) store(ctx context.Context, key string, results []Recommendation) {
	payload, err := json.Marshal(results)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
		s.logger.Warn("result cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

// resultKey hashes the whitespace-trimmed lowercase query so trivially
// different spellings share an entry.
func resultKey(query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	sum := sha1.Sum([]byte(normalized))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
