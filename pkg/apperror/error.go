package apperror

import (
	"net/http"
	"time"
)

// Kind is a stable machine-readable error category. Handlers map kinds to
// HTTP status codes; clients can switch on them without parsing messages.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindNotFound     Kind = "not_found"
	KindExpired      Kind = "expired"
	KindInvalidCode  Kind = "invalid_code"
	KindTooEarly     Kind = "too_early"
	KindDelivery     Kind = "delivery"
	KindStorage      Kind = "storage"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindInternal     Kind = "internal"
)

type AppError struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
	// RetryAfter is set on too_early errors so clients can display the
	// remaining wait before the next resend attempt.
	RetryAfter time.Duration `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, kind Kind, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, KindValidation, message, nil)
}

func Validation(message string) *AppError {
	return New(http.StatusBadRequest, KindValidation, message, nil)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, KindConflict, message, nil)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, KindNotFound, message, nil)
}

func Expired(message string) *AppError {
	return New(http.StatusBadRequest, KindExpired, message, nil)
}

func InvalidCode(message string) *AppError {
	return New(http.StatusBadRequest, KindInvalidCode, message, nil)
}

// TooEarly reports a rate-limited operation together with the remaining wait.
func TooEarly(message string, retryAfter time.Duration) *AppError {
	e := New(http.StatusTooManyRequests, KindTooEarly, message, nil)
	e.RetryAfter = retryAfter
	return e
}

func Delivery(err error) *AppError {
	return New(http.StatusBadGateway, KindDelivery, "Failed to deliver verification code. Please request a resend.", err)
}

func Storage(err error) *AppError {
	return New(http.StatusInternalServerError, KindStorage, "Storage operation failed", err)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, KindUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, KindForbidden, message, nil)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, KindInternal, "Internal Server Error", err)
}
