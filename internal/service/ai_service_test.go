package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AD-Archer/Student-interaction-sub000/internal/dto"
	appErrors "github.com/AD-Archer/Student-interaction-sub000/pkg/errors"
)

func TestAIServiceSummarize(t *testing.T) {
	var gotAuth string
	var gotReq chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(chatCompletionResponse{
			Model: "gpt-4o-mini",
			Choices: []struct {
				Message chatMessage `json:"message"`
			}{{Message: chatMessage{Role: "assistant", Content: "  Short summary.  "}}},
		})
	}))
	defer server.Close()

	service := NewAIService(AIConfig{
		Enabled: true,
		BaseURL: server.URL,
		APIKey:  "secret-key",
		Model:   "gpt-4o-mini",
	}, validator.New(), nil)

	resp, err := service.Summarize(context.Background(), dto.SummarizeRequest{Text: "met with student about job search"})
	require.NoError(t, err)
	assert.Equal(t, "Short summary.", resp.Summary)
	assert.Equal(t, "gpt-4o-mini", resp.Model)
	assert.Equal(t, "Bearer secret-key", gotAuth)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "met with student about job search", gotReq.Messages[1].Content)
}

func TestAIServiceSummarizeProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	service := NewAIService(AIConfig{Enabled: true, BaseURL: server.URL, APIKey: "k", Model: "m"}, validator.New(), nil)

	_, err := service.Summarize(context.Background(), dto.SummarizeRequest{Text: "notes"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnavailable.Code, appErr.Code)
	assert.Equal(t, "rate limited", appErr.Message)
}

func TestAIServiceSummarizeDisabled(t *testing.T) {
	service := NewAIService(AIConfig{Enabled: false}, validator.New(), nil)

	_, err := service.Summarize(context.Background(), dto.SummarizeRequest{Text: "notes"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnavailable.Code, appErrors.FromError(err).Code)
}
