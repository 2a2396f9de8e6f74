package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeMissingImage    ErrorType = "missing_image"
	ErrorTypeEmptyFilename   ErrorType = "empty_filename"
	ErrorTypeDecodeFailure   ErrorType = "decode_failure"
	ErrorTypeClassifier      ErrorType = "classifier_failure"
	ErrorTypeValidation      ErrorType = "validation"
	ErrorTypePayloadTooLarge ErrorType = "payload_too_large"
	ErrorTypeNetwork         ErrorType = "network"
	ErrorTypeTimeout         ErrorType = "timeout"
	ErrorTypeInternal        ErrorType = "internal"
)

// Messages returned verbatim to clients for the two input-validation cases.
const (
	MsgNoImageProvided = "No image provided"
	MsgNoSelectedFile  = "No selected file"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// PublicMessage is the text placed in the response body.
func (e *AppError) PublicMessage() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func newAppError(t ErrorType, status int, message string, cause error) *AppError {
	return &AppError{Type: t, Message: message, StatusCode: status, Cause: cause}
}

// NewMissingImageError reports a request without an image part.
func NewMissingImageError() *AppError {
	return newAppError(ErrorTypeMissingImage, http.StatusBadRequest, MsgNoImageProvided, nil)
}

// NewEmptyFilenameError reports an image part that was sent without a file.
func NewEmptyFilenameError() *AppError {
	return newAppError(ErrorTypeEmptyFilename, http.StatusBadRequest, MsgNoSelectedFile, nil)
}

// NewDecodeError wraps a failure to turn the upload into a tensor.
func NewDecodeError(cause error) *AppError {
	return newAppError(ErrorTypeDecodeFailure, http.StatusInternalServerError, "failed to decode image", cause)
}

// NewClassifierError wraps a failed inference call.
func NewClassifierError(cause error) *AppError {
	return newAppError(ErrorTypeClassifier, http.StatusInternalServerError, "classification failed", cause)
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, cause)
}

// NewPayloadTooLargeError reports a body above the configured limit.
func NewPayloadTooLargeError(cause error) *AppError {
	return newAppError(ErrorTypePayloadTooLarge, http.StatusRequestEntityTooLarge, "request body too large", cause)
}

// NewImageTooLargeError reports an image whose dimensions exceed the pixel limit.
func NewImageTooLargeError(cause error) *AppError {
	return newAppError(ErrorTypePayloadTooLarge, http.StatusRequestEntityTooLarge, "image dimensions too large", cause)
}

// NewNetworkError creates a new network error
func NewNetworkError(message string, cause error) *AppError {
	return newAppError(ErrorTypeNetwork, http.StatusBadGateway, message, cause)
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, cause error) *AppError {
	return newAppError(ErrorTypeTimeout, http.StatusGatewayTimeout, message, cause)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, cause)
}

// IsType checks if the error chain holds an AppError of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
