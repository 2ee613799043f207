package domain

import (
	"errors"
	"time"
)

// ErrorKind стабильный вид ошибки, который видит клиент
type ErrorKind string

const (
	KindValidation  ErrorKind = "VALIDATION"
	KindPermission  ErrorKind = "PERMISSION"
	KindNotFound    ErrorKind = "NOT_FOUND"
	KindConflict    ErrorKind = "CONFLICT"
	KindRateLimited ErrorKind = "RATE_LIMITED"
	KindPersistence ErrorKind = "PERSISTENCE"
	KindInternal    ErrorKind = "INTERNAL"
)

// Error ошибка с видом. Сентинел-ошибки пакетов создаются через NewError,
// поэтому errors.Is(err, domain.ErrConflict) срабатывает для любой из них.
type Error struct {
	Kind ErrorKind
	Msg  string
}

// NewError создает ошибку указанного вида
func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return string(e.Kind)
	}
	return e.Msg
}

// Is сравнивает с ошибкой-видом (Error без сообщения)
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Kind == e.Kind
}

// Ошибки-виды, используются только как цель для errors.Is
var (
	ErrValidation  = &Error{Kind: KindValidation}
	ErrPermission  = &Error{Kind: KindPermission}
	ErrNotFound    = &Error{Kind: KindNotFound}
	ErrConflict    = &Error{Kind: KindConflict}
	ErrRateLimited = &Error{Kind: KindRateLimited}
	ErrPersistence = &Error{Kind: KindPersistence}
)

// RateLimitError отказ по лимиту запросов, ResetAt - окончание текущего окна
type RateLimitError struct {
	ResetAt time.Time
}

func (e *RateLimitError) Error() string {
	return "rate limit exceeded until " + e.ResetAt.UTC().Format(time.RFC3339)
}

// Unwrap даёт вид RATE_LIMITED для errors.Is и KindOf
func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// KindOf возвращает вид ошибки или KindInternal, если вид неизвестен
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
