package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeInvalidEncoding  = "INVALID_ENCODING"
	ErrCodeInvalidTokenizer = "INVALID_TOKENIZER"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error"`
}

// SignatureError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type SignatureError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *SignatureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *SignatureError) Unwrap() error {
	return e.Err
}

// NewSignatureError creates a new SignatureError.
func NewSignatureError(code, message string, err error) *SignatureError {
	return &SignatureError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *SignatureError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}
