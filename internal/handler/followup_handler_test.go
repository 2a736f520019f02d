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
	appErrors "github.com/AD-Archer/Student-interaction-sub000/pkg/errors"
)

type fakeFollowUpSrv struct {
	result   *dto.FollowUpRunResult
	runErr   error
	testErr  error
	lastTest dto.TestEmailRequest
}

func (f *fakeFollowUpSrv) ProcessDue(context.Context) (*dto.FollowUpRunResult, error) {
	return f.result, f.runErr
}

func (f *fakeFollowUpSrv) SendTest(_ context.Context, req dto.TestEmailRequest) error {
	f.lastTest = req
	return f.testErr
}

func TestFollowUpHandlerRun(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewFollowUpHandler(&fakeFollowUpSrv{
		result: &dto.FollowUpRunResult{Processed: 3, Sent: 2, Failed: 1},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/followups/run", nil)

	handler.Run(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, float64(2), envelope.Data["sent"])
}

func TestFollowUpHandlerSendTestRejectsBadAddress(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewFollowUpHandler(&fakeFollowUpSrv{
		testErr: appErrors.Clone(appErrors.ErrValidation, "to_address must be a valid email"),
	})

	body := strings.NewReader(`{"to_name":"Jess","to_address":"not-an-email"}`)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/followups/test-email", body)
	c.Request.Header.Set("Content-Type", "application/json")

	handler.SendTest(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFollowUpHandlerSendTest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeFollowUpSrv{}
	handler := NewFollowUpHandler(service)

	body := strings.NewReader(`{"to_name":"Jess","to_address":"jess@example.com"}`)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/followups/test-email", body)
	c.Request.Header.Set("Content-Type", "application/json")

	handler.SendTest(c)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "jess@example.com", service.lastTest.ToAddress)
}
