package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/AD-Archer/Student-interaction-sub000/internal/dto"
)

type fakeSummarizer struct {
	resp *dto.SummarizeResponse
	err  error
	last dto.SummarizeRequest
}

func (f *fakeSummarizer) Summarize(_ context.Context, req dto.SummarizeRequest) (*dto.SummarizeResponse, error) {
	f.last = req
	return f.resp, f.err
}

func TestAIHandlerSummarize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeSummarizer{resp: &dto.SummarizeResponse{Summary: "short version", Model: "gpt-4o-mini"}}
	handler := NewAIHandler(service)

	body := strings.NewReader(`{"text":"a long note about a call"}`)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/ai/summarize", body)
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Summarize(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a long note about a call", service.last.Text)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, "short version", envelope.Data["summary"])
}

func TestAIHandlerSummarizeUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAIHandler(nil)

	body := strings.NewReader(`{"text":"note"}`)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/ai/summarize", body)
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Summarize(c)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
