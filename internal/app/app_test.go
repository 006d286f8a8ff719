package app

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/injury-triage-server/internal/domain"
)

type staticConfig struct {
	config domain.Config
}

func (m *staticConfig) GetConfig() *domain.Config               { return &m.config }
func (m *staticConfig) GetServerConfig() *domain.ServerConfig   { return &m.config.Server }
func (m *staticConfig) GetGeminiConfig() *domain.GeminiConfig   { return &m.config.Gemini }
func (m *staticConfig) GetCacheConfig() *domain.CacheConfig     { return &m.config.Cache }
func (m *staticConfig) GetLoggingConfig() *domain.LoggingConfig { return &m.config.Logging }
func (m *staticConfig) Reload() error                           { return nil }
func (m *staticConfig) Validate() error                         { return nil }
func (m *staticConfig) IsProduction() bool                      { return false }
func (m *staticConfig) IsDevelopment() bool                     { return true }

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestBuild_WithoutCache(t *testing.T) {
	cm := &staticConfig{config: domain.Config{
		Gemini: domain.GeminiConfig{APIKey: "k", Timeout: time.Second, RateLimit: 1},
	}}

	components, err := Build(cm, quietLogger())
	require.NoError(t, err)

	assert.NotNil(t, components.Service)
	assert.Equal(t, "closed", components.Breaker.State())
	assert.Nil(t, components.Cache)
	assert.NoError(t, components.Close())
}

func TestBuild_WithMemoryCache(t *testing.T) {
	cm := &staticConfig{config: domain.Config{
		Gemini: domain.GeminiConfig{APIKey: "k"},
		Cache:  domain.CacheConfig{Enabled: true, MaxItems: 4, TTL: time.Minute},
	}}

	components, err := Build(cm, quietLogger())
	require.NoError(t, err)
	require.NotNil(t, components.Cache)
	assert.Equal(t, int64(0), components.Cache.Stats().Misses)
	assert.NoError(t, components.Close())
}

func TestBuild_BadRedisURL(t *testing.T) {
	cm := &staticConfig{config: domain.Config{
		Cache: domain.CacheConfig{Enabled: true, RedisURL: "://bad"},
	}}

	_, err := Build(cm, quietLogger())
	assert.Error(t, err)
}
