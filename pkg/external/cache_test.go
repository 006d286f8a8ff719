package external

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/injury-triage-server/internal/domain"
)

type memoryStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	getErr  error
	deleted []string
	closed  bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string][]byte)}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryStore) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *memoryStore) Close() error {
	m.closed = true
	return nil
}

func TestCachedClassifier_MemoryHit(t *testing.T) {
	stub := &stubClassifier{raw: injuryRaw(domain.InjuryCardiac)}
	cache := newCachedClassifier(stub, domain.CacheConfig{MaxItems: 8, TTL: time.Minute}, nil, silentLogger())

	for i := 0; i < 3; i++ {
		raw, err := cache.ClassifyImage(context.Background(), testImageInput())
		require.NoError(t, err)
		assert.Equal(t, domain.InjuryCardiac, *raw.InjuryType)
	}

	assert.Equal(t, 1, stub.callCount())
	assert.Equal(t, CacheStats{MemoryHits: 2, Misses: 1}, cache.Stats())
	assert.NoError(t, cache.Close())
}

func TestCachedClassifier_DistinctImages(t *testing.T) {
	stub := &stubClassifier{raw: injuryRaw(domain.InjuryMinor)}
	cache := newCachedClassifier(stub, domain.CacheConfig{}, nil, silentLogger())

	first := testImageInput()
	second := testImageInput()
	second.Digest = "d2"

	_, err := cache.ClassifyImage(context.Background(), first)
	require.NoError(t, err)
	_, err = cache.ClassifyImage(context.Background(), second)
	require.NoError(t, err)

	assert.Equal(t, 2, stub.callCount())
}

func TestCachedClassifier_ErrorsAreNotCached(t *testing.T) {
	stub := &stubClassifier{err: domain.ErrExternalService}
	cache := newCachedClassifier(stub, domain.CacheConfig{}, nil, silentLogger())

	for i := 0; i < 2; i++ {
		_, err := cache.ClassifyImage(context.Background(), testImageInput())
		assert.True(t, errors.Is(err, domain.ErrExternalService))
	}
	assert.Equal(t, 2, stub.callCount())
}

func TestCachedClassifier_RedisTier(t *testing.T) {
	store := newMemoryStore()
	stub := &stubClassifier{raw: injuryRaw(domain.InjuryRespiratory)}
	cache := newCachedClassifier(stub, domain.CacheConfig{TTL: time.Minute}, store, silentLogger())

	_, err := cache.ClassifyImage(context.Background(), testImageInput())
	require.NoError(t, err)
	require.Contains(t, store.data, cacheKeyPrefix+"d1")

	// A fresh process only has the shared tier.
	cache.Purge()

	raw, err := cache.ClassifyImage(context.Background(), testImageInput())
	require.NoError(t, err)
	assert.Equal(t, domain.InjuryRespiratory, *raw.InjuryType)
	assert.Equal(t, 1, stub.callCount())
	assert.Equal(t, int64(1), cache.Stats().RedisHits)

	require.NoError(t, cache.Close())
	assert.True(t, store.closed)
}

func TestCachedClassifier_CorruptedEntryIsEvicted(t *testing.T) {
	store := newMemoryStore()
	store.data[cacheKeyPrefix+"d1"] = []byte("{not json")

	stub := &stubClassifier{raw: injuryRaw(domain.InjuryBurns)}
	cache := newCachedClassifier(stub, domain.CacheConfig{}, store, silentLogger())

	raw, err := cache.ClassifyImage(context.Background(), testImageInput())
	require.NoError(t, err)
	assert.Equal(t, domain.InjuryBurns, *raw.InjuryType)
	assert.Equal(t, 1, stub.callCount())
	assert.Contains(t, store.deleted, cacheKeyPrefix+"d1")
}

func TestCachedClassifier_ExpiredEntryIsEvicted(t *testing.T) {
	store := newMemoryStore()
	store.data[cacheKeyPrefix+"d1"] = []byte(`{"data": {"injury_type": "minor"}, "cached_at": "2020-01-01T00:00:00Z", "expires_at": "2020-01-01T00:10:00Z"}`)

	stub := &stubClassifier{raw: injuryRaw(domain.InjuryCardiac)}
	cache := newCachedClassifier(stub, domain.CacheConfig{}, store, silentLogger())

	raw, err := cache.ClassifyImage(context.Background(), testImageInput())
	require.NoError(t, err)
	assert.Equal(t, domain.InjuryCardiac, *raw.InjuryType)
	assert.Contains(t, store.deleted, cacheKeyPrefix+"d1")
}

func TestCachedClassifier_RedisFailureFallsThrough(t *testing.T) {
	store := newMemoryStore()
	store.getErr = errors.New("connection refused")

	stub := &stubClassifier{raw: injuryRaw(domain.InjuryMinor)}
	cache := newCachedClassifier(stub, domain.CacheConfig{}, store, silentLogger())

	raw, err := cache.ClassifyImage(context.Background(), testImageInput())
	require.NoError(t, err)
	assert.Equal(t, domain.InjuryMinor, *raw.InjuryType)
	assert.Equal(t, 1, stub.callCount())
}

func TestCachedClassifier_NoDigestBypassesCache(t *testing.T) {
	stub := &stubClassifier{raw: injuryRaw(domain.InjuryMinor)}
	cache := newCachedClassifier(stub, domain.CacheConfig{}, nil, silentLogger())

	image := testImageInput()
	image.Digest = ""

	for i := 0; i < 2; i++ {
		_, err := cache.ClassifyImage(context.Background(), image)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, stub.callCount())
}

func TestNewCachedClassifier_BadRedisURL(t *testing.T) {
	_, err := NewCachedClassifier(&stubClassifier{}, domain.CacheConfig{RedisURL: "://nope"}, silentLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse Redis URL")
}

func TestNewCachedClassifier_MemoryOnly(t *testing.T) {
	cache, err := NewCachedClassifier(&stubClassifier{}, domain.CacheConfig{Enabled: true}, silentLogger())
	require.NoError(t, err)
	assert.Nil(t, cache.remote)
}
