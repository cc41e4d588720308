package apperror

import (
	"errors"
	"net/http"
)

// Reason is a machine-readable code attached to domain rule violations so
// clients can react per case without parsing messages.
type Reason string

const (
	ReasonVoucherNotFound      Reason = "NOT_FOUND"
	ReasonVoucherInactive      Reason = "INACTIVE"
	ReasonVoucherExpired       Reason = "EXPIRED_OR_NOT_STARTED"
	ReasonBelowMinPurchase     Reason = "BELOW_MIN_PURCHASE"
	ReasonUsageLimitExceeded   Reason = "USAGE_LIMIT_EXCEEDED"
	ReasonPerUserLimitExceeded Reason = "PER_USER_LIMIT_EXCEEDED"
	ReasonInsufficientStock    Reason = "INSUFFICIENT_STOCK"
	ReasonInsufficientPoints   Reason = "INSUFFICIENT_POINTS"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Reason  Reason       `json:"reason,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict       = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrUnprocessable  = &AppError{Code: http.StatusUnprocessableEntity, Message: "Unprocessable entity"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// NewRuleViolation creates a domain rule violation carrying a reason code.
// Voucher NOT_FOUND maps to 404, every other rejection to 400.
func NewRuleViolation(reason Reason, message string) *AppError {
	code := http.StatusBadRequest
	if reason == ReasonVoucherNotFound {
		code = http.StatusNotFound
	}
	return &AppError{
		Code:    code,
		Message: message,
		Reason:  reason,
	}
}

// NewConcurrencyConflict creates a 409 for a lost usage-limit or stock race.
// The whole checkout is safe to retry as a new request.
func NewConcurrencyConflict(reason Reason, message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
		Reason:  reason,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}

// ReasonOf returns the reason code carried by err, if any.
func ReasonOf(err error) Reason {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Reason
	}
	return ""
}
