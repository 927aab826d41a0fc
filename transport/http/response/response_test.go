package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"salon/internal/domains/booking/model"
	"salon/shared/failure"
	"salon/transport/http/response"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]string {
	t.Helper()

	body := map[string]string{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	return body
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
		kind    string
	}{
		{"not found", failure.NotFound("booking not found"), http.StatusNotFound, "booking not found", "RESOURCE_NOT_FOUND"},
		{"conflict", failure.Conflict("slot taken"), http.StatusConflict, "slot taken", "BOOKING_CONFLICT"},
		{"invalid booking", failure.InvalidBooking("past"), http.StatusBadRequest, "past", "INVALID_BOOKING"},
		{"forbidden", failure.ForbiddenError, http.StatusForbidden, failure.ForbiddenError.Message, "ACCESS_DENIED"},
		{
			"transition",
			&model.TransitionError{From: model.StatusConfirmed, To: model.StatusPending},
			http.StatusBadRequest,
			"cannot change booking status from CONFIRMED to PENDING",
			"INVALID_OPERATION",
		},
		{"plain bad request", failure.BadRequestFromString("invalid body"), http.StatusBadRequest, "invalid body", ""},
		{"internal", fmt.Errorf("failed to insert: %w", errors.New("pq: connection refused")), http.StatusInternalServerError, "internal server error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			response.WithError(recorder, tt.err)

			body := decode(t, recorder)

			assert.Equal(t, tt.code, recorder.Code)
			assert.Equal(t, tt.message, body["error"])
			assert.Equal(t, tt.kind, body["kind"])
			assert.Empty(t, recorder.Header().Get("Retry-After"))
		})
	}
}

func TestWithErrorRetryable(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithError(recorder, failure.Unavailable("store timeout"))

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Equal(t, "1", recorder.Header().Get("Retry-After"))
	assert.Equal(t, "UNAVAILABLE", decode(t, recorder)["kind"])
}

func TestWithJSONAndMessage(t *testing.T) {
	recorder := httptest.NewRecorder()
	response.WithJSON(recorder, http.StatusCreated, map[string]string{"id": "b-1"})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"data":{"id":"b-1"}}`, recorder.Body.String())
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	recorder = httptest.NewRecorder()
	response.WithMessage(recorder, http.StatusOK, "Booking deleted successfully")

	assert.JSONEq(t, `{"message":"Booking deleted successfully"}`, recorder.Body.String())
}
