package dto

// APIError is the structured error body every failing response uses.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	// RetryAfterSeconds is set only on cooldown rejections.
	RetryAfterSeconds int `json:"retry_after_seconds,omitempty"`
}

// Common error codes
const (
	ErrCodeNotFound      = "not_found"
	ErrCodeBadRequest    = "bad_request"
	ErrCodeInternalError = "internal_error"
	ErrCodeValidation    = "validation_error"
	ErrCodeCooldown      = "cooldown_active"
	ErrCodeConflict      = "sync_conflict"
)

// NewAPIError creates a new APIError with the given code and message.
func NewAPIError(code, message string) APIError {
	return APIError{Code: code, Message: message}
}

// NotFoundError creates a not found error response.
func NotFoundError(resource string) APIError {
	return NewAPIError(ErrCodeNotFound, resource+" not found")
}

// BadRequestError creates a bad request error response.
func BadRequestError(message string) APIError {
	return NewAPIError(ErrCodeBadRequest, message)
}

// InternalError creates an internal server error response.
func InternalError(message string) APIError {
	return NewAPIError(ErrCodeInternalError, message)
}

// ValidationError creates a validation error response.
func ValidationError(message string) APIError {
	return NewAPIError(ErrCodeValidation, message)
}

// CooldownError creates the 429 body for a sync requested before the
// cooldown window has passed.
func CooldownError(message string, retryAfterSeconds int) APIError {
	return APIError{
		Code:              ErrCodeCooldown,
		Message:           message,
		RetryAfterSeconds: retryAfterSeconds,
	}
}
