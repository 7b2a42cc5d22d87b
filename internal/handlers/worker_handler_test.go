package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"receipt-dashboard/internal/dto"
	"receipt-dashboard/internal/offline"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

type fakeWorkerController struct {
	posted []offline.Message
	reply  dto.WorkerMessageResponse
	err    error
	status dto.WorkerStatus
}

func (f *fakeWorkerController) PostMessage(_ context.Context, msg offline.Message) (dto.WorkerMessageResponse, error) {
	f.posted = append(f.posted, msg)
	return f.reply, f.err
}

func (f *fakeWorkerController) Status(context.Context) dto.WorkerStatus {
	return f.status
}

type WorkerHandlerTestSuite struct {
	suite.Suite
	echo    *echo.Echo
	worker  *fakeWorkerController
	handler *WorkerHandler
}

func (s *WorkerHandlerTestSuite) SetupTest() {
	s.echo = echo.New()
	s.echo.Validator = NewValidator()
	s.worker = &fakeWorkerController{}
	s.handler = NewWorkerHandler(s.worker)
}

func TestWorkerHandlerSuite(t *testing.T) {
	suite.Run(t, new(WorkerHandlerTestSuite))
}

func (s *WorkerHandlerTestSuite) post(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/__worker/message", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	c.Set(TraceIDContextKey, "trace-1")

	s.Require().NoError(s.handler.PostMessage(c))
	return rec
}

func (s *WorkerHandlerTestSuite) TestPostMessage_ForwardsSync() {
	s.worker.reply = dto.WorkerMessageResponse{Type: "SYNC", OK: true, Payload: map[string]int{"acknowledged": 2}}

	rec := s.post(`{"type":"SYNC","tag":"sync-receipts"}`)

	s.Equal(http.StatusOK, rec.Code)
	s.Require().Len(s.worker.posted, 1)
	s.Equal(offline.MessageSync, s.worker.posted[0].Type)
	s.Equal("sync-receipts", s.worker.posted[0].Tag)

	var reply dto.WorkerMessageResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &reply))
	s.True(reply.OK)
	s.Equal("SYNC", reply.Type)
}

func (s *WorkerHandlerTestSuite) TestPostMessage_QueueMutationCarriesRequest() {
	s.worker.reply = dto.WorkerMessageResponse{Type: "QUEUE_MUTATION", OK: true}

	rec := s.post(`{"type":"QUEUE_MUTATION","tag":"sync-receipts","mutation":{"method":"POST","url":"/api/transactions/split","body":"e30="}}`)

	s.Equal(http.StatusOK, rec.Code)
	s.Require().Len(s.worker.posted, 1)
	s.Require().NotNil(s.worker.posted[0].Mutation)
	s.Equal("/api/transactions/split", s.worker.posted[0].Mutation.URL)
	s.Equal([]byte("{}"), s.worker.posted[0].Mutation.Body)
}

func (s *WorkerHandlerTestSuite) TestPostMessage_RejectedByWorker() {
	s.worker.reply = dto.WorkerMessageResponse{Type: "SKIP_WAITING", OK: false, Error: "no waiting worker"}

	rec := s.post(`{"type":"SKIP_WAITING"}`)

	s.Equal(http.StatusConflict, rec.Code)
	s.Contains(rec.Body.String(), "no waiting worker")
}

func (s *WorkerHandlerTestSuite) TestPostMessage_InvalidMessages() {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"type":`},
		{"missing type", `{}`},
		{"unknown type", `{"type":"REBOOT"}`},
		{"queue without mutation", `{"type":"QUEUE_MUTATION","tag":"sync-receipts"}`},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.worker.posted = nil
			rec := s.post(tt.body)

			s.Equal(http.StatusBadRequest, rec.Code)
			s.Contains(rec.Body.String(), "SYNC_003")
			s.Empty(s.worker.posted)
		})
	}
}

func (s *WorkerHandlerTestSuite) TestPostMessage_NoActiveWorker() {
	s.worker.err = offline.ErrNoActiveWorker

	rec := s.post(`{"type":"GET_VERSION"}`)

	s.Equal(http.StatusServiceUnavailable, rec.Code)
	s.Contains(rec.Body.String(), "SYSTEM_003")
}

func (s *WorkerHandlerTestSuite) TestPostMessage_UnexpectedError() {
	s.worker.err = errors.New("channel closed")

	rec := s.post(`{"type":"GET_VERSION"}`)

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.NotContains(rec.Body.String(), "channel closed")
}

func (s *WorkerHandlerTestSuite) TestStatus() {
	s.worker.status = dto.WorkerStatus{
		ActiveVersion: "v3",
		ActiveState:   "active",
		CacheNames:    []string{"receipts-static-v3", "receipts-dynamic-v3"},
		PendingQueue:  2,
		Online:        true,
	}

	req := httptest.NewRequest(http.MethodGet, "/__worker/status", nil)
	rec := httptest.NewRecorder()
	s.Require().NoError(s.handler.Status(s.echo.NewContext(req, rec)))

	s.Equal(http.StatusOK, rec.Code)
	var status dto.WorkerStatus
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &status))
	s.Equal(s.worker.status, status)
}
