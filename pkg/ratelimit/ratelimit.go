package ratelimit

import (
	"context"
	"errors"
	"time"
)

// ErrLimitExceeded возвращается, когда лимит запросов в текущем окне исчерпан
var ErrLimitExceeded = errors.New("ratelimit: limit exceeded")

// Result результат проверки лимита
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time // момент окончания текущего окна
}

// Limiter счетчик фиксированного окна
// CheckAndIncrement атомарно увеличивает счетчик ключа в текущем окне и
// возвращает ErrLimitExceeded вместе с заполненным Result, если лимит превышен
type Limiter interface {
	CheckAndIncrement(ctx context.Context, key string, window time.Duration, maxRequests int) (Result, error)
}

// BuildResult собирает Result по значению счетчика после инкремента
func BuildResult(count, maxRequests int, resetAt time.Time) (Result, error) {
	remaining := maxRequests - count
	if remaining < 0 {
		remaining = 0
	}
	res := Result{
		Allowed:   count <= maxRequests,
		Limit:     maxRequests,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
	if !res.Allowed {
		return res, ErrLimitExceeded
	}
	return res, nil
}
