package response_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"concierge/shared/failure"
	"concierge/transport/http/response"
)

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "client failure keeps its message",
			err:      failure.BadRequestFromString("Check-out date must be after check-in date"),
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"Check-out date must be after check-in date"}`,
		},
		{
			name:     "wrapped failure keeps its code",
			err:      fmt.Errorf("outer: %w", failure.NotFound("request not found")),
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"outer: request not found"}`,
		},
		{
			name:     "repository error is answered generically",
			err:      errors.New("failed to insert request: pq: connection refused"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"something went wrong, please try again"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			response.WithError(recorder, tt.err)

			assert.Equal(t, tt.wantCode, recorder.Code)
			assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, recorder.Body.String())
		})
	}
}

func TestWithJSON(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithJSON(recorder, http.StatusCreated, map[string]string{"id": "req-1"})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"data":{"id":"req-1"}}`, recorder.Body.String())
}

func TestWithMessage(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithRequestLimitExceeded(recorder)

	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.JSONEq(t, `{"message":"REQUEST LIMIT EXCEEDED"}`, recorder.Body.String())
}
