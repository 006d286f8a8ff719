package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors shared by the classifier, the service and the transports.
var (
	ErrNoImage            = errors.New("no image provided")
	ErrInvalidImage       = errors.New("uploaded file is not a supported image")
	ErrExternalService    = errors.New("image classification service failed")
	ErrMalformedResponse  = errors.New("malformed classification response")
	ErrServiceUnavailable = errors.New("image classification service unavailable")
)

// Error codes for different failure scenarios
const (
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeExternalAPI        = "EXTERNAL_API_ERROR"
	ErrCodeInternalServer     = "INTERNAL_SERVER_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// TriageError is a coded error tied to a single request.
type TriageError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
	cause     error
}

// Error implements the error interface
func (e *TriageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *TriageError) Unwrap() error {
	return e.cause
}

// NewTriageError creates a TriageError for err, picking the code from the
// sentinel it wraps.
func NewTriageError(err error, requestID string) *TriageError {
	te := &TriageError{
		Code:      CodeFor(err),
		Message:   err.Error(),
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
		cause:     err,
	}
	if inner := errors.Unwrap(err); inner != nil {
		te.Details = inner.Error()
	}
	return te
}

// CodeFor maps an error onto one of the error codes.
func CodeFor(err error) string {
	switch {
	case errors.Is(err, ErrNoImage), errors.Is(err, ErrInvalidImage):
		return ErrCodeInvalidInput
	case errors.Is(err, ErrServiceUnavailable):
		return ErrCodeServiceUnavailable
	case errors.Is(err, ErrExternalService), errors.Is(err, ErrMalformedResponse):
		return ErrCodeExternalAPI
	default:
		return ErrCodeInternalServer
	}
}

// IsInputError reports whether err was caused by the client's request.
func IsInputError(err error) bool {
	return CodeFor(err) == ErrCodeInvalidInput
}
