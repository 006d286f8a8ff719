package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/injury-triage-server/internal/domain"
)

// DefaultClassifyTimeout bounds a single classifier call when none is configured.
const DefaultClassifyTimeout = 30 * time.Second

// TriageService runs one image through the classifier and the triage pipeline.
type TriageService struct {
	logger     *logrus.Logger
	classifier domain.ImageClassifier
	pipeline   *TriagePipeline
	timeout    time.Duration
}

// NewTriageService creates a new triage service
func NewTriageService(logger *logrus.Logger, classifier domain.ImageClassifier, timeout time.Duration) *TriageService {
	if timeout <= 0 {
		timeout = DefaultClassifyTimeout
	}
	return &TriageService{
		logger:     logger,
		classifier: classifier,
		pipeline:   NewTriagePipeline(),
		timeout:    timeout,
	}
}

// Triage classifies the image and derives the routing decision. The
// classifier is called exactly once; any failure it reports is returned
// wrapped in one of the domain sentinels.
func (s *TriageService) Triage(ctx context.Context, image *domain.ImageInput) (*domain.TriageResult, error) {
	if image == nil || len(image.Data) == 0 {
		return nil, domain.ErrNoImage
	}

	startTime := time.Now()
	logger := s.logger.WithFields(logrus.Fields{
		"image_digest": image.Digest,
		"mime_type":    image.MIMEType,
		"image_bytes":  len(image.Data),
	})
	logger.Debug("Starting image triage")

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.classifier.ClassifyImage(ctx, image)
	if err != nil {
		err = classifierError(err)
		logger.WithError(err).Warn("Image classification failed")
		return nil, err
	}

	result := s.pipeline.Run(raw)

	logger.WithFields(logrus.Fields(result.LogFields())).
		WithField("processing_time", time.Since(startTime)).
		Info("Image triage completed")

	return result, nil
}

// StrategyOverview returns the decision tables used by the pipeline.
func (s *TriageService) StrategyOverview() *domain.StrategyOverview {
	return s.pipeline.StrategyOverview()
}

// classifierError makes sure every classifier failure carries a domain sentinel.
func classifierError(err error) error {
	switch {
	case errors.Is(err, domain.ErrExternalService),
		errors.Is(err, domain.ErrMalformedResponse),
		errors.Is(err, domain.ErrServiceUnavailable),
		errors.Is(err, domain.ErrNoImage),
		errors.Is(err, domain.ErrInvalidImage):
		return err
	default:
		return fmt.Errorf("%w: %w", domain.ErrExternalService, err)
	}
}
