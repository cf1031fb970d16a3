package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeMissingCredentials = "MISSING_CREDENTIALS"
	ErrCodeSearchFailed       = "SEARCH_FAILED"
	ErrCodeUnknownCategory    = "UNKNOWN_CATEGORY"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DiscoverError is the internal error type carrying an error code.
// Only configuration-class failures (missing provider credentials, unknown
// category, search provider down) are surfaced through it; per-URL fetch
// and extraction failures are absorbed into the result shape instead.
type DiscoverError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *DiscoverError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DiscoverError) Unwrap() error {
	return e.Err
}

// NewDiscoverError creates a new DiscoverError.
func NewDiscoverError(code, message string, err error) *DiscoverError {
	return &DiscoverError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *DiscoverError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}
