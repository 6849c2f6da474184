// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(status int, code, message string) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
	}
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func ForbiddenError(message string) *AppError {
	return NewAppError(http.StatusForbidden, "FORBIDDEN", message)
}

func PaymentRequiredError(message string) *AppError {
	return NewAppError(http.StatusPaymentRequired, "PAYMENT_REQUIRED", message)
}

func NotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, "NOT_FOUND", message)
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
