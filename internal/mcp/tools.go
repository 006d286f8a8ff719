package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/injury-triage-server/internal/domain"
	"github.com/injury-triage-server/internal/service"
)

const (
	triageImageTool       = "triage_image"
	rankingStrategiesTool = "get_ranking_strategies"
)

// TriageImageInput is the argument object of the triage_image tool.
type TriageImageInput struct {
	ImageBase64 string `json:"image_base64" jsonschema:"base64 encoded photograph of the scene, optionally as a data URL"`
	MimeType    string `json:"mime_type,omitempty" jsonschema:"declared MIME type; the content is sniffed regardless"`
}

// RankingStrategiesInput takes no arguments.
type RankingStrategiesInput struct{}

func (s *Server) handleTriageImage(ctx context.Context, _ *mcp.CallToolRequest, input TriageImageInput) (*mcp.CallToolResult, any, error) {
	requestID := uuid.New().String()
	logger := s.logger.WithFields(logrus.Fields{
		"tool":       triageImageTool,
		"request_id": requestID,
	})

	data, err := decodeImage(input.ImageBase64)
	if err != nil {
		return s.toolError(logger, err, requestID), nil, nil
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		err := fmt.Errorf("%w: %d bytes exceeds the %d byte limit", domain.ErrInvalidImage, len(data), s.maxBytes)
		return s.toolError(logger, err, requestID), nil, nil
	}

	image, err := service.NewImageInput(data, "")
	if err != nil {
		return s.toolError(logger, err, requestID), nil, nil
	}
	if declared := strings.TrimSpace(input.MimeType); declared != "" && declared != image.MIMEType {
		logger.WithFields(logrus.Fields{
			"declared_mime": declared,
			"detected_mime": image.MIMEType,
		}).Debug("Declared MIME type differs from content")
	}

	result, err := s.triager.Triage(ctx, image)
	if err != nil {
		return s.toolError(logger, err, requestID), nil, nil
	}

	return jsonResult(result)
}

func (s *Server) handleRankingStrategies(_ context.Context, _ *mcp.CallToolRequest, _ RankingStrategiesInput) (*mcp.CallToolResult, any, error) {
	return jsonResult(s.triager.StrategyOverview())
}

// decodeImage accepts plain base64 or a data URL.
func decodeImage(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, domain.ErrNoImage
	}
	if strings.HasPrefix(encoded, "data:") {
		if i := strings.Index(encoded, ","); i >= 0 {
			encoded = encoded[i+1:]
		}
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(encoded)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %w", domain.ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return nil, domain.ErrNoImage
	}
	return data, nil
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(payload)}},
	}, nil, nil
}

// toolError reports a failure to the client as a tool-level error carrying
// the coded TriageError as JSON.
func (s *Server) toolError(logger *logrus.Entry, err error, requestID string) *mcp.CallToolResult {
	te := domain.NewTriageError(err, requestID)

	entry := logger.WithFields(logrus.Fields{"error_code": te.Code, "details": te.Details})
	if domain.IsInputError(err) {
		entry.Warn(te.Message)
	} else {
		entry.Error(te.Message)
	}

	payload, marshalErr := json.Marshal(te)
	if marshalErr != nil {
		payload = []byte(te.Error())
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: string(payload)}},
	}
}
