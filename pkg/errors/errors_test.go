package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_StatusFromCode(t *testing.T) {
	tests := []struct {
		err       *AppError
		status    int
		retryable bool
	}{
		{ErrValidation("bad"), http.StatusBadRequest, false},
		{ErrBadRequest("bad"), http.StatusBadRequest, false},
		{ErrUnsupportedMediaType(), http.StatusUnsupportedMediaType, false},
		{ErrNotFound("carrier"), http.StatusNotFound, false},
		{ErrNoFulfillmentOption(), http.StatusUnprocessableEntity, false},
		{ErrCollaboratorsFailing(), http.StatusServiceUnavailable, true},
		{ErrServiceUnavailable("fulfillment decision"), http.StatusServiceUnavailable, true},
		{ErrTimeout("fulfillment decision"), http.StatusGatewayTimeout, true},
		{ErrInternal(""), http.StatusInternalServerError, false},
		{New("SOMETHING_ELSE", "odd"), http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.err.Code, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.retryable, tt.err.Retryable())
		})
	}
}

func TestAppError_WrapAndDetails(t *testing.T) {
	cause := errors.New("rates down")
	err := ErrCollaboratorsFailing().Wrap(cause).WithDetail("collaborator", "rates")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "rates", err.Details["collaborator"])
	assert.Contains(t, err.Error(), "COLLABORATORS_UNAVAILABLE")
	assert.Contains(t, err.Error(), "rates down")
	assert.Equal(t, "an internal error occurred", ErrInternal("").Message)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"app error in chain", fmt.Errorf("decide: %w", ErrNoFulfillmentOption()), CodeNoFulfillmentOption},
		{"deadline", fmt.Errorf("decide: %w", context.DeadlineExceeded), CodeTimeout},
		{"canceled", context.Canceled, CodeServiceUnavailable},
		{"not found message", errors.New("carrier CX not found"), CodeNotFound},
		{"invalid message", errors.New("invalid zip"), CodeValidationError},
		{"anything else", errors.New("boom"), CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := Classify(tt.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}

	assert.Nil(t, Classify(nil))
}
