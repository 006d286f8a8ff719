package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/injury-triage-server/internal/domain"
	"github.com/injury-triage-server/internal/middleware"
	"github.com/injury-triage-server/internal/service"
)

const imageField = "image"

const noImageMessage = "No image provided"

// handleTriage accepts a multipart upload and returns the triage decision.
func (s *Server) handleTriage(c *gin.Context) {
	maxBytes := s.configManager.GetServerConfig().MaxImageBytes
	if maxBytes > 0 {
		// Leave room for the multipart envelope around the image.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+64<<10)
	}

	data, filename, err := readUpload(c, maxBytes)
	if err != nil {
		s.writeUploadError(c, err)
		return
	}

	image, err := service.NewImageInput(data, filename)
	if err != nil {
		s.writeError(c, err)
		return
	}

	result, err := s.triager.Triage(c.Request.Context(), image)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleStrategy returns the decision tables for client-side ranking.
func (s *Server) handleStrategy(c *gin.Context) {
	c.JSON(http.StatusOK, s.triager.StrategyOverview())
}

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	status := "healthy"
	body := gin.H{
		"timestamp": time.Now().UTC(),
		"version":   Version,
	}

	if s.breaker != nil {
		stats := s.breaker.Stats()
		body["classifier"] = stats.State
		body["classifier_stats"] = stats
		if stats.State == "open" {
			status = "degraded"
		}
	}
	if s.cache != nil {
		body["cache"] = s.cache.Stats()
	}
	body["status"] = status

	c.JSON(http.StatusOK, body)
}

var errImageTooLarge = errors.New("image too large")

func readUpload(c *gin.Context, maxBytes int64) ([]byte, string, error) {
	header, err := c.FormFile(imageField)
	if err != nil {
		return nil, "", err
	}
	if maxBytes > 0 && header.Size > maxBytes {
		return nil, "", fmt.Errorf("%w: %d bytes exceeds the %d byte limit", errImageTooLarge, header.Size, maxBytes)
	}

	file, err := header.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return data, header.Filename, nil
}

func (s *Server) writeUploadError(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		c.JSON(http.StatusBadRequest, gin.H{"error": noImageMessage})
	case errors.Is(err, errImageTooLarge), errors.As(err, &maxErr):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	default:
		s.writeError(c, fmt.Errorf("invalid multipart form: %w", err))
	}
}

// writeError maps domain errors onto status codes. Only a missing image is a
// 400; everything else, including an unreadable image or an open circuit
// breaker, is a 500 carrying the error message.
func (s *Server) writeError(c *gin.Context, err error) {
	correlationID := c.GetString(middleware.CorrelationIDKey)
	_ = c.Error(err)

	switch {
	case errors.Is(err, domain.ErrNoImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": noImageMessage})
	default:
		te := domain.NewTriageError(err, correlationID)
		s.logger.WithFields(logrus.Fields{
			"correlation_id": te.RequestID,
			"error_code":     te.Code,
			"details":        te.Details,
		}).Error(te.Message)
		c.JSON(http.StatusInternalServerError, gin.H{"error": te.Message})
	}
}
