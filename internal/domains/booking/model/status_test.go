package model_test

import (
	"errors"
	"net/http"
	"salon/internal/domains/booking/model"
	"salon/shared/failure"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allowed = map[model.Status][]model.Status{
	model.StatusPending:   {model.StatusConfirmed, model.StatusCancelled},
	model.StatusConfirmed: {model.StatusCompleted, model.StatusCancelled, model.StatusNoShow},
}

func isAllowed(from, to model.Status) bool {
	for _, target := range allowed[from] {
		if target == to {
			return true
		}
	}

	return false
}

func TestValidateTransitionCompleteness(t *testing.T) {
	for _, from := range model.Statuses() {
		for _, to := range model.Statuses() {
			t.Run(from.String()+"->"+to.String(), func(t *testing.T) {
				err := from.ValidateTransition(to)

				if isAllowed(from, to) {
					assert.NoError(t, err)
					assert.True(t, from.CanTransitionTo(to))

					return
				}

				var transitionErr *model.TransitionError

				require.True(t, errors.As(err, &transitionErr))
				assert.Equal(t, from, transitionErr.From)
				assert.Equal(t, to, transitionErr.To)
				assert.Equal(t, failure.KindInvalidOperation, failure.GetKind(err))
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			})
		}
	}
}

func TestTerminalAndActive(t *testing.T) {
	tests := []struct {
		status   model.Status
		terminal bool
		active   bool
	}{
		{model.StatusPending, false, true},
		{model.StatusConfirmed, false, true},
		{model.StatusCompleted, true, false},
		{model.StatusCancelled, true, false},
		{model.StatusNoShow, true, false},
		{model.Status("ARCHIVED"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
			assert.Equal(t, tt.active, tt.status.IsActive())
		})
	}
}

func TestParseStatus(t *testing.T) {
	status, err := model.ParseStatus(" confirmed ")
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, status)

	status, err = model.ParseStatus("NO_SHOW")
	require.NoError(t, err)
	assert.Equal(t, model.StatusNoShow, status)

	_, err = model.ParseStatus("archived")
	assert.Equal(t, failure.KindInvalidOperation, failure.GetKind(err))

	_, err = model.ParseStatus("")
	assert.Error(t, err)
}

func TestTransitionErrorMessage(t *testing.T) {
	err := model.StatusConfirmed.ValidateTransition(model.StatusPending)

	assert.EqualError(t, err, "cannot change booking status from CONFIRMED to PENDING")
}
