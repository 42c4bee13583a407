package models

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies failures returned to callers.
type ErrorKind string

const (
	NotFoundError     ErrorKind = "NOT_FOUND"
	InvalidStateError ErrorKind = "INVALID_STATE"
	ConflictError     ErrorKind = "CONFLICT"
	ValidationError   ErrorKind = "VALIDATION"
	InternalError     ErrorKind = "INTERNAL"
)

// ErrorResponse describes a failure with an HTTP code, a kind and a message.
type ErrorResponse struct {
	StatusCode    int         `json:"-"`
	Kind          ErrorKind   `json:"kind"`
	Message       string      `json:"reason"`
	CurrentStatus OrderStatus `json:"currentStatus,omitempty"`
}

// NewErrorResponse creates a new error with a code and a message.
func NewErrorResponse(statusCode int, message string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: statusCode,
		Kind:       kindForStatus(statusCode),
		Message:    message,
	}
}

// NewNotFound is returned when an order does not exist or is not visible to the supplier.
func NewNotFound(message string) *ErrorResponse {
	return &ErrorResponse{StatusCode: http.StatusNotFound, Kind: NotFoundError, Message: message}
}

// NewInvalidState carries the order's real status so clients can show it.
func NewInvalidState(current OrderStatus) *ErrorResponse {
	return &ErrorResponse{
		StatusCode:    http.StatusConflict,
		Kind:          InvalidStateError,
		Message:       fmt.Sprintf("order cannot be accepted in status %s", current),
		CurrentStatus: current,
	}
}

// NewConflict is returned when another actor changed the order first.
func NewConflict() *ErrorResponse {
	return &ErrorResponse{
		StatusCode: http.StatusConflict,
		Kind:       ConflictError,
		Message:    "order was modified by another request, refresh and retry",
	}
}

// NewValidation rejects malformed input.
func NewValidation(format string, args ...interface{}) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: http.StatusBadRequest,
		Kind:       ValidationError,
		Message:    fmt.Sprintf(format, args...),
	}
}

// Error satisfies the error interface.
func (e *ErrorResponse) Error() string {
	return e.Message
}

func kindForStatus(statusCode int) ErrorKind {
	switch statusCode {
	case http.StatusNotFound:
		return NotFoundError
	case http.StatusConflict:
		return ConflictError
	case http.StatusBadRequest:
		return ValidationError
	default:
		return InternalError
	}
}
