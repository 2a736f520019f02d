package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/AD-Archer/Student-interaction-sub000/internal/dto"
	appErrors "github.com/AD-Archer/Student-interaction-sub000/pkg/errors"
)

// AIConfig points the summarizer at a chat-completions compatible endpoint.
type AIConfig struct {
	Enabled bool
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// AIService proxies interaction notes to an external model for summarization.
// The API key never leaves the server; clients only see the generated text.
type AIService struct {
	config    AIConfig
	client    *http.Client
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAIService constructs an AIService.
func NewAIService(config AIConfig, validate *validator.Validate, logger *zap.Logger) *AIService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AIService{
		config:    config,
		client:    &http.Client{Timeout: timeout},
		validator: validate,
		logger:    logger,
	}
}

// Enabled reports whether the proxy is configured.
func (s *AIService) Enabled() bool {
	return s.config.Enabled && s.config.BaseURL != "" && s.config.APIKey != ""
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Summarize generates a short summary of the provided interaction notes.
func (s *AIService) Summarize(ctx context.Context, req dto.SummarizeRequest) (*dto.SummarizeResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid summarize payload")
	}
	if !s.Enabled() {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "AI summarization is not configured")
	}

	instruction := strings.TrimSpace(req.Instruction)
	if instruction == "" {
		instruction = "Summarize the following student interaction notes in two or three sentences for a case manager."
	}

	payload := chatCompletionRequest{
		Model: s.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: instruction},
			{Role: "user", Content: req.Text},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode AI request")
	}

	url := strings.TrimRight(s.config.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build AI request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "AI provider unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to read AI response")
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(raw, &completion); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "unexpected AI response payload")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		message := "AI provider returned an error"
		if completion.Error != nil && completion.Error.Message != "" {
			message = completion.Error.Message
		}
		s.logger.Warn("AI provider error",
			zap.Int("status", resp.StatusCode),
			zap.String("message", message))
		return nil, appErrors.Wrap(fmt.Errorf("provider status %d", resp.StatusCode),
			appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, message)
	}

	if len(completion.Choices) == 0 {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "AI provider returned no choices")
	}

	model := completion.Model
	if model == "" {
		model = s.config.Model
	}
	return &dto.SummarizeResponse{
		Summary: strings.TrimSpace(completion.Choices[0].Message.Content),
		Model:   model,
	}, nil
}
