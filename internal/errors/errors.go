package errors

import (
	"context"
	"errors"
	"fmt"
)

// ErrStoreClosed is the cause reported when a closed store is used.
var ErrStoreClosed = errors.New("store closed")

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    "VALIDATION_FAILED",
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, identifier string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Code:    "NOT_FOUND",
		Context: map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// NewTimerStateError reports a timer command issued against a task whose
// timer is in the wrong state.
func NewTimerStateError(taskID string, message string) *AppError {
	return &AppError{
		Type:    ErrorTypeTimerState,
		Message: message,
		Code:    "TIMER_STATE",
		Context: map[string]interface{}{
			"task_id": taskID,
		},
	}
}

// NewStoreUnavailableError wraps a failure of the backing task store
func NewStoreUnavailableError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeStoreUnavailable,
		Message: fmt.Sprintf("store operation failed: %s", operation),
		Code:    "STORE_UNAVAILABLE",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(field string, value interface{}, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInput,
		Message: fmt.Sprintf("invalid input for %s: %s", field, reason),
		Code:    "INVALID_INPUT",
		Context: map[string]interface{}{
			"field":  field,
			"value":  value,
			"reason": reason,
		},
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(operation string, timeout interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeTimeout,
		Message: fmt.Sprintf("operation timed out: %s", operation),
		Code:    "TIMEOUT",
		Context: map[string]interface{}{
			"operation": operation,
			"timeout":   timeout,
		},
	}
}

// WrapError wraps an existing error with additional context
func WrapError(err error, errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Code:    errorType.String(),
		Cause:   err,
		Context: make(map[string]interface{}),
	}
}

// FromStore classifies a raw backing-store failure. AppErrors pass through
// untouched; deadline errors become timeouts and everything else is
// reported as the store being unavailable.
func FromStore(operation string, err error) error {
	if err == nil {
		return nil
	}
	if IsAppError(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		timeoutErr := NewTimeoutError(operation, nil)
		timeoutErr.Cause = err
		return timeoutErr
	}
	return NewStoreUnavailableError(operation, err)
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

// IsRetryable reports whether retrying the same operation may succeed
func IsRetryable(err error) bool {
	return IsErrorType(err, ErrorTypeTimeout) || IsErrorType(err, ErrorTypeStoreUnavailable)
}

// GetUserMessage returns a user-friendly error message
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation:
			if appErr.Cause != nil {
				return fmt.Sprintf("%s: %v", appErr.Message, appErr.Cause)
			}
			return appErr.Message
		case ErrorTypeNotFound:
			return appErr.Message
		case ErrorTypeInvalidInput:
			return appErr.Message
		case ErrorTypeTimerState:
			return appErr.Message
		case ErrorTypeStoreUnavailable:
			return "The task store is unavailable. Please try again."
		case ErrorTypeTimeout:
			return "The operation timed out. Please try again."
		default:
			return "An unexpected error occurred. Please try again."
		}
	}
	return err.Error()
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError determines if an error should be logged based on its type
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput, ErrorTypeTimerState:
			return false // These are user errors, not system errors
		case ErrorTypeStoreUnavailable, ErrorTypeTimeout:
			return true
		default:
			return true
		}
	}
	return true // Unknown errors should be logged
}
