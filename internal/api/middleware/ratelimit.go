package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ratelimit"
)

const msgRateLimited = "слишком много запросов, повторите позже"

var rateLimitMessages = map[error]string{
	domain.ErrRateLimited: msgRateLimited,
}

// RateLimiter счетчик фиксированного окна
type RateLimiter interface {
	CheckAndIncrement(ctx context.Context, key string, window time.Duration, maxRequests int) (ratelimit.Result, error)
}

// RateLimitCollector счетчик отклонённых запросов
type RateLimitCollector interface {
	IncRateLimited(route string)
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// KeyFunc ключ лимита для запроса
type KeyFunc func(r *http.Request) string

// ByIP ключ ip:<addr>:<route> для публичных маршрутов
func ByIP(r *http.Request) string {
	return "ip:" + clientIP(r) + ":" + routeOf(r)
}

// ByUser ключ user:<id>:<route> для маршрутов с пользователем, без него - по IP
func ByUser(r *http.Request) string {
	actor, ok := GetActor(r.Context())
	if !ok {
		return ByIP(r)
	}
	return "user:" + strconv.FormatInt(actor.UserID, 10) + ":" + routeOf(r)
}

// RateLimit ограничивает число запросов на ключ в окне window
// Сбой хранилища лимитера не блокирует запрос.
func RateLimit(
	limiter RateLimiter,
	window time.Duration,
	maxRequests int,
	key KeyFunc,
	collector RateLimitCollector,
	logger Logger,
) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := limiter.CheckAndIncrement(r.Context(), key(r), window, maxRequests)
			if err != nil && !errors.Is(err, ratelimit.ErrLimitExceeded) {
				logger.Error("%s %s - rate limiter failed: %v", r.Method, routeOf(r), err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if err != nil {
				route := routeOf(r)
				limitErr := &domain.RateLimitError{ResetAt: res.ResetAt}
				logger.Warn("%s %s - Request rejected: key=%s, error=%v", r.Method, route, key(r), limitErr)
				if collector != nil {
					collector.IncRateLimited(route)
				}
				handlers.RespondDomainError(w, limitErr, rateLimitMessages)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
