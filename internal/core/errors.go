// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrConflict        = errors.New("conflict")
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrForbidden       = errors.New("forbidden")
	ErrPolicyViolation = errors.New("policy violation")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrTokenExpired    = errors.New("token expired")
	ErrTokenRevoked    = errors.New("token revoked")
	ErrTokenInvalid    = errors.New("token invalid")
	ErrRateLimited     = errors.New("rate limited")
)

// AppError carries a user-facing message alongside the sentinel it wraps.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, statusCode int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
		Code:       code,
	}
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

func NotFoundf(format string, args ...any) *AppError {
	return NewAppError(
		ErrNotFound,
		fmt.Sprintf(format, args...),
		http.StatusNotFound,
		"NOT_FOUND",
	)
}

func Validationf(format string, args ...any) *AppError {
	return NewAppError(
		ErrInvalidInput,
		fmt.Sprintf(format, args...),
		http.StatusBadRequest,
		"VALIDATION_ERROR",
	)
}

func Conflictf(format string, args ...any) *AppError {
	return NewAppError(
		ErrConflict,
		fmt.Sprintf(format, args...),
		http.StatusConflict,
		"CONFLICT",
	)
}

func Forbiddenf(format string, args ...any) *AppError {
	return NewAppError(
		ErrForbidden,
		fmt.Sprintf(format, args...),
		http.StatusForbidden,
		"FORBIDDEN",
	)
}

func PolicyViolationf(format string, args ...any) *AppError {
	return NewAppError(
		ErrPolicyViolation,
		fmt.Sprintf(format, args...),
		http.StatusUnprocessableEntity,
		"POLICY_VIOLATION",
	)
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return NewAppError(ErrUnauthorized, message, http.StatusUnauthorized, "UNAUTHORIZED")
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "insufficient permissions"
	}
	return NewAppError(ErrForbidden, message, http.StatusForbidden, "FORBIDDEN")
}

func TokenExpiredError() *AppError {
	return NewAppError(ErrTokenExpired, "token has expired", http.StatusUnauthorized, "TOKEN_EXPIRED")
}

func TokenRevokedError() *AppError {
	return NewAppError(ErrTokenRevoked, "token has been revoked", http.StatusUnauthorized, "TOKEN_REVOKED")
}

func TokenInvalidError() *AppError {
	return NewAppError(ErrTokenInvalid, "token is invalid", http.StatusUnauthorized, "TOKEN_INVALID")
}

func RateLimitedError(retryAfter int) *AppError {
	return NewAppError(
		ErrRateLimited,
		fmt.Sprintf("rate limit exceeded, retry after %d seconds", retryAfter),
		http.StatusTooManyRequests,
		"RATE_LIMITED",
	)
}

func DuplicateError(field string) *AppError {
	return NewAppError(
		ErrDuplicateKey,
		fmt.Sprintf("%s already exists", field),
		http.StatusConflict,
		"DUPLICATE",
	)
}

// statusForSentinel maps bare sentinels that reached the handler without an
// AppError wrapper.
func statusForSentinel(err error) (int, string, string, bool) {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found", true
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest, "VALIDATION_ERROR", "invalid input", true
	case errors.Is(err, ErrDuplicateKey):
		return http.StatusConflict, "DUPLICATE", "resource already exists", true
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, "CONFLICT", "conflict", true
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "insufficient permissions", true
	case errors.Is(err, ErrPolicyViolation):
		return http.StatusUnprocessableEntity, "POLICY_VIOLATION", "policy violation", true
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", true
	}
	return 0, "", "", false
}
