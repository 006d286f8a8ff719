package external

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/injury-triage-server/internal/domain"
	"github.com/injury-triage-server/internal/service"
)

const (
	defaultGeminiBaseURL   = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel     = "gemini-2.5-flash"
	defaultGeminiTimeout   = 30 * time.Second
	defaultGeminiRateLimit = 5

	// Upper bound on the response body we are willing to read.
	maxGeminiResponseBytes = 4 << 20
)

// Gemini error conditions, each also wrapping a domain sentinel.
var (
	ErrGeminiRateLimited  = errors.New("gemini rate limit exceeded")
	ErrGeminiUnavailable  = errors.New("gemini model unavailable")
	ErrGeminiBlocked      = errors.New("gemini blocked the request")
	ErrGeminiNoCandidates = errors.New("gemini returned no candidates")
)

// GeminiClient classifies injury photographs with the Gemini generateContent API.
type GeminiClient struct {
	baseURL    string
	apiKey     string
	model      string
	prompt     string
	httpClient *http.Client
	rateLimit  *rate.Limiter
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason,omitempty"`
	} `json:"promptFeedback,omitempty"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewGeminiClient creates a new Gemini client. Zero-valued settings fall back to defaults.
func NewGeminiClient(config domain.GeminiConfig) *GeminiClient {
	if config.BaseURL == "" {
		config.BaseURL = defaultGeminiBaseURL
	}
	if config.Model == "" {
		config.Model = defaultGeminiModel
	}
	if config.Timeout == 0 {
		config.Timeout = defaultGeminiTimeout
	}
	if config.RateLimit == 0 {
		config.RateLimit = defaultGeminiRateLimit
	}

	return &GeminiClient{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		apiKey:  config.APIKey,
		model:   config.Model,
		prompt:  ClassificationPrompt(),
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		rateLimit: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}
}

// Model returns the configured model name
func (c *GeminiClient) Model() string {
	return c.model
}

// ClassifyImage sends the image together with the classification
// instruction and parses the model's JSON answer.
func (c *GeminiClient) ClassifyImage(ctx context.Context, image *domain.ImageInput) (*domain.RawClassification, error) {
	if image == nil || len(image.Data) == 0 {
		return nil, domain.ErrNoImage
	}

	if err := c.rateLimit.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait: %w", domain.ErrExternalService, err)
	}

	text, err := c.generateContent(ctx, image)
	if err != nil {
		return nil, err
	}

	raw, err := service.ParseRawClassification([]byte(extractJSON(text)))
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *GeminiClient) generateContent(ctx context.Context, image *domain.ImageInput) (string, error) {
	mimeType := image.MIMEType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{InlineData: &geminiInlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(image.Data),
				}},
				{Text: c.prompt},
			},
		}},
		GenerationConfig: &geminiGenerationConfig{ResponseMimeType: "application/json"},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal request: %w", domain.ErrExternalService, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %w", domain.ErrExternalService, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: request failed: %w", domain.ErrExternalService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxGeminiResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %w", domain.ErrExternalService, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp.StatusCode, body)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: failed to decode response envelope: %w", domain.ErrMalformedResponse, err)
	}

	if parsed.PromptFeedback != nil && parsed.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: %w: %s", domain.ErrExternalService, ErrGeminiBlocked, parsed.PromptFeedback.BlockReason)
	}
	if len(parsed.Candidates) == 0 {
		return "", fmt.Errorf("%w: %w", domain.ErrExternalService, ErrGeminiNoCandidates)
	}

	var sb strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}

func statusError(status int, body []byte) error {
	message := strings.TrimSpace(string(body))
	var apiErr geminiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		message = apiErr.Error.Message
	}

	switch status {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w: %s", domain.ErrExternalService, ErrGeminiRateLimited, message)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %w: %s", domain.ErrExternalService, ErrGeminiUnavailable, message)
	default:
		return fmt.Errorf("%w: status %d: %s", domain.ErrExternalService, status, message)
	}
}

// extractJSON strips a markdown code fence if the model wrapped its answer in one.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
