package httpapi

import (
	"net/http"

	"sitetrack/internal/domain"
)

// Result is the uniform response envelope every endpoint returns.
// - code: ResultSuccess on success, ResultError otherwise
// - type: 'success' | 'error'
// - message: human-readable status
// - result: the payload, null on error
type Result[T any] struct {
	Code    int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Result  T      `json:"result"`
}

const (
	ResultSuccess = 2000
	ResultError   = -1
)

func Ok[T any](result T) Result[T] {
	return Result[T]{Code: ResultSuccess, Type: "success", Message: "ok", Result: result}
}

func Fail(message string) Result[any] {
	return Result[any]{Code: ResultError, Type: "error", Message: message, Result: nil}
}

// statusForError maps domain error kinds onto HTTP statuses. Anything
// without a kind is an internal error.
func statusForError(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict, domain.KindCompleted:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
