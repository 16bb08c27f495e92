package errors

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	// PlatformError wraps an error reported by the underlying location
	// service. It is relayed verbatim, never retried or reinterpreted.
	PlatformError ErrorType = "PLATFORM_ERROR"
	// PermissionDeniedError is the one synchronous failure the capability
	// surface can produce: the platform rejected a temporary full-accuracy
	// request for a caller-supplied purpose key.
	PermissionDeniedError ErrorType = "PERMISSION_DENIED"
	// UnconfiguredError marks an operation invoked on the failing adapter
	// without a test-provided override. It never occurs in production.
	UnconfiguredError ErrorType = "UNCONFIGURED_OPERATION"
	// ValidationError covers malformed caller input (e.g. an empty purpose
	// key or a bad capability-table override document).
	ValidationError ErrorType = "VALIDATION_ERROR"
)

// AppError is the structured error every non-nil failure in this module
// resolves to.
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Detail  string    `json:"detail,omitempty"`
	Raw     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Raw
}

// New creates a new AppError.
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Detail:  detail,
	}
}

// Wrap wraps a raw error with AppError context.
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:    errType,
		Message: message,
		Detail:  err.Error(),
		Raw:     err,
	}
}

// NewPlatformError relays a platform-reported failure without reinterpreting it.
func NewPlatformError(err error) *AppError {
	return Wrap(err, PlatformError, "location service reported a failure")
}

// PermissionDenied reports a rejected temporary full-accuracy request.
func PermissionDenied(purposeKey string, err error) *AppError {
	return &AppError{
		Type:    PermissionDeniedError,
		Message: "temporary full-accuracy authorization denied",
		Detail:  fmt.Sprintf("purpose key %q: %v", purposeKey, err),
		Raw:     err,
	}
}

// Unconfigured reports an operation invoked without a test override. The
// operation name is carried in the detail so a failing test points at the
// exact missing stub.
func Unconfigured(operation string) *AppError {
	return &AppError{
		Type:    UnconfiguredError,
		Message: "operation invoked without a configured implementation",
		Detail:  operation,
	}
}

// ValidationFailed reports malformed caller input.
func ValidationFailed(message string, detail string) *AppError {
	return &AppError{
		Type:    ValidationError,
		Message: message,
		Detail:  detail,
	}
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}
