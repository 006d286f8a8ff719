// Package app assembles the triage service from configuration. Both
// binaries build their dependencies here so neither holds global client state.
package app

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/injury-triage-server/internal/domain"
	"github.com/injury-triage-server/internal/service"
	"github.com/injury-triage-server/pkg/external"
)

// Components holds everything a transport needs.
type Components struct {
	Service *service.TriageService
	Breaker *external.ResilientClassifier
	Cache   *external.CachedClassifier
}

// Close releases resources held by optional components.
func (c *Components) Close() error {
	if c.Cache != nil {
		return c.Cache.Close()
	}
	return nil
}

// Build wires Gemini, the circuit breaker, the optional cache and the
// triage service. The cache sits in front of the breaker so hits never
// count against the upstream.
func Build(cm domain.ConfigManager, logger *logrus.Logger) (*Components, error) {
	geminiCfg := cm.GetGeminiConfig()
	cacheCfg := cm.GetCacheConfig()

	gemini := external.NewGeminiClient(*geminiCfg)
	breaker := external.NewResilientClassifier(gemini, geminiCfg.Breaker, logger)

	components := &Components{Breaker: breaker}

	var classifier domain.ImageClassifier = breaker
	if cacheCfg.Enabled {
		cache, err := external.NewCachedClassifier(breaker, *cacheCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create classification cache: %w", err)
		}
		components.Cache = cache
		classifier = cache

		logger.WithFields(logrus.Fields{
			"max_items": cacheCfg.MaxItems,
			"ttl":       cacheCfg.TTL.String(),
			"redis":     cacheCfg.RedisURL != "",
		}).Info("Classification cache enabled")
	}

	components.Service = service.NewTriageService(logger, classifier, geminiCfg.Timeout)

	logger.WithFields(logrus.Fields{
		"model":      gemini.Model(),
		"rate_limit": geminiCfg.RateLimit,
	}).Info("Triage service initialized")

	return components, nil
}
