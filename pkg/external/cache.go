package external

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/injury-triage-server/internal/domain"
)

const (
	defaultCacheItems = 256
	defaultCacheTTL   = 10 * time.Minute
	cacheKeyPrefix    = "triage:classification:"
)

// remoteStore is the shared second tier. redisStore is the production implementation.
type remoteStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Close() error
}

type redisStore struct {
	client *redis.Client
}

func newRedisStore(config domain.CacheConfig) (*redisStore, error) {
	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	if config.PoolSize > 0 {
		opts.PoolSize = config.PoolSize
	}
	if config.PoolTimeout > 0 {
		opts.PoolTimeout = config.PoolTimeout
	}
	if config.MaxRetries != 0 {
		opts.MaxRetries = config.MaxRetries
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisStore{client: client}, nil
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *redisStore) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *redisStore) Close() error {
	return s.client.Close()
}

// cachedClassification is the envelope stored in Redis.
type cachedClassification struct {
	Data      *domain.RawClassification `json:"data"`
	CachedAt  time.Time                 `json:"cached_at"`
	ExpiresAt time.Time                 `json:"expires_at"`
}

// CacheStats counts lookups per tier.
type CacheStats struct {
	MemoryHits int64 `json:"memory_hits"`
	RedisHits  int64 `json:"redis_hits"`
	Misses     int64 `json:"misses"`
}

// CachedClassifier memoizes raw classifications by image digest. Tier 1 is
// an in-process expiring LRU, tier 2 an optional Redis instance. Cache
// failures never fail a request; they fall through to the classifier.
type CachedClassifier struct {
	classifier domain.ImageClassifier
	memory     *expirable.LRU[string, domain.RawClassification]
	remote     remoteStore
	ttl        time.Duration
	logger     *logrus.Logger

	memoryHits atomic.Int64
	redisHits  atomic.Int64
	misses     atomic.Int64
}

// NewCachedClassifier wraps classifier with the cache described by config.
// A Redis tier is only attached when config.RedisURL is set.
func NewCachedClassifier(classifier domain.ImageClassifier, config domain.CacheConfig, logger *logrus.Logger) (*CachedClassifier, error) {
	var remote remoteStore
	if config.RedisURL != "" {
		store, err := newRedisStore(config)
		if err != nil {
			return nil, err
		}
		remote = store
	}
	return newCachedClassifier(classifier, config, remote, logger), nil
}

func newCachedClassifier(classifier domain.ImageClassifier, config domain.CacheConfig, remote remoteStore, logger *logrus.Logger) *CachedClassifier {
	if config.MaxItems <= 0 {
		config.MaxItems = defaultCacheItems
	}
	if config.TTL <= 0 {
		config.TTL = defaultCacheTTL
	}

	return &CachedClassifier{
		classifier: classifier,
		memory:     expirable.NewLRU[string, domain.RawClassification](config.MaxItems, nil, config.TTL),
		remote:     remote,
		ttl:        config.TTL,
		logger:     logger,
	}
}

// ClassifyImage returns a cached classification for identical image bytes
// or delegates to the wrapped classifier and stores its answer.
func (c *CachedClassifier) ClassifyImage(ctx context.Context, image *domain.ImageInput) (*domain.RawClassification, error) {
	if image == nil || image.Digest == "" {
		return c.classifier.ClassifyImage(ctx, image)
	}

	key := cacheKeyPrefix + image.Digest
	logger := c.logger.WithField("image_digest", image.Digest)

	if raw, ok := c.memory.Get(key); ok {
		c.memoryHits.Add(1)
		logger.WithField("cache_tier", "memory").Debug("Classification cache hit")
		return &raw, nil
	}

	if raw, ok := c.getRemote(ctx, key, logger); ok {
		c.redisHits.Add(1)
		logger.WithField("cache_tier", "redis").Debug("Classification cache hit")
		c.memory.Add(key, *raw)
		return raw, nil
	}

	c.misses.Add(1)

	raw, err := c.classifier.ClassifyImage(ctx, image)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	c.memory.Add(key, *raw)
	c.setRemote(ctx, key, raw, logger)

	return raw, nil
}

func (c *CachedClassifier) getRemote(ctx context.Context, key string, logger *logrus.Entry) (*domain.RawClassification, bool) {
	if c.remote == nil {
		return nil, false
	}

	val, ok, err := c.remote.Get(ctx, key)
	if err != nil {
		logger.WithError(err).Warn("Redis cache lookup failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var cached cachedClassification
	if err := json.Unmarshal(val, &cached); err != nil || cached.Data == nil {
		logger.Warn("Removing corrupted classification cache entry")
		_ = c.remote.Del(ctx, key)
		return nil, false
	}

	if time.Now().After(cached.ExpiresAt) {
		_ = c.remote.Del(ctx, key)
		return nil, false
	}

	return cached.Data, true
}

func (c *CachedClassifier) setRemote(ctx context.Context, key string, raw *domain.RawClassification, logger *logrus.Entry) {
	if c.remote == nil {
		return
	}

	now := time.Now()
	payload, err := json.Marshal(cachedClassification{
		Data:      raw,
		CachedAt:  now,
		ExpiresAt: now.Add(c.ttl),
	})
	if err != nil {
		logger.WithError(err).Warn("Failed to encode classification for cache")
		return
	}

	if err := c.remote.Set(ctx, key, payload, c.ttl); err != nil {
		logger.WithError(err).Warn("Failed to store classification in Redis")
	}
}

// Stats returns hit and miss counters since creation.
func (c *CachedClassifier) Stats() CacheStats {
	return CacheStats{
		MemoryHits: c.memoryHits.Load(),
		RedisHits:  c.redisHits.Load(),
		Misses:     c.misses.Load(),
	}
}

// Purge empties the in-memory tier.
func (c *CachedClassifier) Purge() {
	c.memory.Purge()
}

// Close releases the Redis connection pool, if any.
func (c *CachedClassifier) Close() error {
	if c.remote == nil {
		return nil
	}
	return c.remote.Close()
}
