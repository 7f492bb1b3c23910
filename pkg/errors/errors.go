package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes produced locally. Codes echoed from the remote `code` field are
// passed through verbatim and are not listed here.
const (
	// CodeUnknownError is a service-side failure; the message was recovered
	// from the response text or its JSON message fields
	CodeUnknownError = "unknown_error"
	// CodeUnknownResponse means the service reported success but sent a body
	// that is not JSON
	CodeUnknownResponse = "unknown_response"
	// CodeCanceled is returned when the caller's context ended before the call completed
	CodeCanceled = "canceled"
	// CodeNetworkError is a transport failure before any response was received
	CodeNetworkError = "network_error"
)

// APIError is the normalized failure of a single API call.
// It is built once while the response is interpreted and never changed afterwards.
type APIError struct {
	Code    string
	Message string
	Status  int // HTTP status, 0 when no response was received
	Cause   error
	Context map[string]interface{}
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// NewAPIError creates a new API error
func NewAPIError(code, message string, status int) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Status:  status,
		Context: make(map[string]interface{}),
	}
}

// WithCause sets the underlying error
func (e *APIError) WithCause(cause error) *APIError {
	e.Cause = cause
	return e
}

// WithContext attaches a diagnostic value such as the raw body or URL
func (e *APIError) WithContext(key string, value interface{}) *APIError {
	e.Context[key] = value
	return e
}

// IsCode reports whether err is an APIError carrying code
func IsCode(err error, code string) bool {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}

// IsCanceled reports whether err is the result of caller cancellation
func IsCanceled(err error) bool {
	return IsCode(err, CodeCanceled)
}

// ValidationError represents invalid local input. It is a programmer error
// and is returned before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
