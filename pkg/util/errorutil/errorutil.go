package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced to API callers.
const (
	CodeValidation    = "VALIDATION_FAILED"
	CodeNotFound      = "NOT_FOUND"
	CodeNotReopenable = "NOT_REOPENABLE"
	CodeRequestClosed = "REQUEST_CLOSED"
	CodeInvalidState  = "INVALID_STATE"
	CodeTransient     = "TRANSIENT_FAILURE"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeInternal      = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewNotReopenable(requestID string) error {
	return NewDomainError(CodeNotReopenable,
		fmt.Sprintf("request %s cannot be reopened", requestID),
		http.StatusConflict, map[string]any{"request_id": requestID})
}

func NewRequestClosed(requestID string) error {
	return NewDomainError(CodeRequestClosed,
		fmt.Sprintf("request %s is closed; chat is disabled", requestID),
		http.StatusConflict, map[string]any{"request_id": requestID})
}

func NewInvalidState(message string, details map[string]any) error {
	return NewDomainError(CodeInvalidState, message, http.StatusConflict, details)
}

func NewTransientFailure(message string) error {
	return NewDomainError(CodeTransient, message, http.StatusServiceUnavailable, nil)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// HasCode reports whether err carries a DomainError with the given code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
