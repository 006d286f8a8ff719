package external

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/injury-triage-server/internal/domain"
)

// ResilientClassifier guards an ImageClassifier with a circuit breaker.
type ResilientClassifier struct {
	classifier domain.ImageClassifier
	breaker    *gobreaker.CircuitBreaker
	logger     *logrus.Logger
}

// NewResilientClassifier wraps classifier with a circuit breaker built from config.
func NewResilientClassifier(classifier domain.ImageClassifier, config domain.BreakerConfig, logger *logrus.Logger) *ResilientClassifier {
	if config.MaxRequests == 0 {
		config.MaxRequests = 5
	}
	if config.Interval == 0 {
		config.Interval = 30 * time.Second
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.MinRequests == 0 {
		config.MinRequests = 3
	}
	if config.FailureRatio == 0 {
		config.FailureRatio = 0.6
	}

	r := &ResilientClassifier{
		classifier: classifier,
		logger:     logger,
	}

	r.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "gemini",
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker changed state")
		},
		IsSuccessful: func(err error) bool {
			// A canceled caller says nothing about the health of the service.
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return r
}

// ClassifyImage forwards to the wrapped classifier unless the breaker is open.
func (r *ResilientClassifier) ClassifyImage(ctx context.Context, image *domain.ImageInput) (*domain.RawClassification, error) {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.classifier.ClassifyImage(ctx, image)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err)
		}
		return nil, err
	}

	return result.(*domain.RawClassification), nil
}

// State reports the breaker state as "closed", "half-open" or "open".
func (r *ResilientClassifier) State() string {
	return r.breaker.State().String()
}

// BreakerStats is the breaker's view of the current interval.
type BreakerStats struct {
	State                string `json:"state"`
	Requests             uint32 `json:"requests"`
	TotalSuccesses       uint32 `json:"total_successes"`
	TotalFailures        uint32 `json:"total_failures"`
	ConsecutiveFailures  uint32 `json:"consecutive_failures"`
	ConsecutiveSuccesses uint32 `json:"consecutive_successes"`
}

// Stats exposes the breaker's counters for the current interval.
func (r *ResilientClassifier) Stats() BreakerStats {
	counts := r.breaker.Counts()
	return BreakerStats{
		State:                r.State(),
		Requests:             counts.Requests,
		TotalSuccesses:       counts.TotalSuccesses,
		TotalFailures:        counts.TotalFailures,
		ConsecutiveFailures:  counts.ConsecutiveFailures,
		ConsecutiveSuccesses: counts.ConsecutiveSuccesses,
	}
}
