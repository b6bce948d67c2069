package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error codes returned by the fulfillment API
const (
	CodeValidationError      = "VALIDATION_ERROR"
	CodeBadRequest           = "BAD_REQUEST"
	CodeUnsupportedMedia     = "INVALID_CONTENT_TYPE"
	CodeNotFound             = "RESOURCE_NOT_FOUND"
	CodeNoFulfillmentOption  = "NO_FULFILLMENT_OPTION"
	CodeCollaboratorsFailing = "COLLABORATORS_UNAVAILABLE"
	CodeServiceUnavailable   = "SERVICE_UNAVAILABLE"
	CodeTimeout              = "TIMEOUT"
	CodeInternalError        = "INTERNAL_ERROR"
)

var codeStatus = map[string]int{
	CodeValidationError:      http.StatusBadRequest,
	CodeBadRequest:           http.StatusBadRequest,
	CodeUnsupportedMedia:     http.StatusUnsupportedMediaType,
	CodeNotFound:             http.StatusNotFound,
	CodeNoFulfillmentOption:  http.StatusUnprocessableEntity,
	CodeCollaboratorsFailing: http.StatusServiceUnavailable,
	CodeServiceUnavailable:   http.StatusServiceUnavailable,
	CodeTimeout:              http.StatusGatewayTimeout,
	CodeInternalError:        http.StatusInternalServerError,
}

// AppError is an error with a stable code, an HTTP status and optional per-field details
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	HTTPStatus int               `json:"-"`
	Err        error             `json:"-"`
}

// New creates an AppError whose status is derived from code. Unknown codes map to 500.
func New(code, message string) *AppError {
	status, ok := codeStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap records the underlying cause
func (e *AppError) Wrap(err error) *AppError {
	e.Err = err
	return e
}

// WithDetail adds a single detail to the error
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Retryable reports whether the same request may succeed later
func (e *AppError) Retryable() bool {
	switch e.Code {
	case CodeCollaboratorsFailing, CodeServiceUnavailable, CodeTimeout:
		return true
	default:
		return false
	}
}

// ErrValidation is a request that failed validation
func ErrValidation(message string) *AppError {
	return New(CodeValidationError, message)
}

// ErrValidationWithFields is a validation error with one message per offending field
func ErrValidationWithFields(message string, fields map[string]string) *AppError {
	e := ErrValidation(message)
	e.Details = fields
	return e
}

// ErrBadRequest is a request that could not be read
func ErrBadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

// ErrUnsupportedMediaType is a body that is not JSON
func ErrUnsupportedMediaType() *AppError {
	return New(CodeUnsupportedMedia, "Content-Type must be application/json")
}

// ErrNotFound is a missing resource
func ErrNotFound(resource string) *AppError {
	return New(CodeNotFound, resource+" not found")
}

// ErrNoFulfillmentOption is the single user-visible failure of the decision engine
func ErrNoFulfillmentOption() *AppError {
	return New(CodeNoFulfillmentOption, "no fulfillment option available for this order")
}

// ErrCollaboratorsFailing means candidates existed but every lookup for them failed
func ErrCollaboratorsFailing() *AppError {
	return New(CodeCollaboratorsFailing, "fulfillment collaborators failed for every candidate")
}

// ErrServiceUnavailable is a dependency or the service itself going away
func ErrServiceUnavailable(service string) *AppError {
	return New(CodeServiceUnavailable, service+" is temporarily unavailable")
}

// ErrTimeout is an operation that ran out of time
func ErrTimeout(operation string) *AppError {
	return New(CodeTimeout, operation+" timed out")
}

// ErrInternal is anything unexpected. An empty message gets a generic one.
func ErrInternal(message string) *AppError {
	if message == "" {
		message = "an internal error occurred"
	}
	return New(CodeInternalError, message)
}

// AsAppError finds an AppError in err's chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Classify turns any error into an AppError. AppErrors in the chain win,
// context errors map to timeout and unavailable, the rest falls back on the message.
func Classify(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout("operation").Wrap(err)
	case errors.Is(err, context.Canceled):
		return ErrServiceUnavailable("operation").Wrap(err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not found"):
		return ErrNotFound("resource").Wrap(err)
	case strings.Contains(msg, "invalid"), strings.Contains(msg, "required"):
		return ErrValidation(err.Error()).Wrap(err)
	default:
		return ErrInternal("").Wrap(err)
	}
}
