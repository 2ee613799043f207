package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/ratelimit"
)

const tableName = "rate_limit_counters"

// upsertSuffix сбрасывает счетчик, если окно истекло или изменилась его длина,
// иначе увеличивает его. Всё в одном выражении, поэтому инкремент атомарен
// для всех экземпляров сервиса.
const upsertSuffix = `ON CONFLICT (key) DO UPDATE SET
	count = CASE
		WHEN ` + expiredCond + ` THEN 1
		ELSE rate_limit_counters.count + 1
	END,
	window_start = CASE
		WHEN ` + expiredCond + ` THEN EXCLUDED.window_start
		ELSE rate_limit_counters.window_start
	END,
	window_ms = EXCLUDED.window_ms
RETURNING count, window_start, window_ms`

const expiredCond = `rate_limit_counters.window_ms <> EXCLUDED.window_ms
			OR rate_limit_counters.window_start + rate_limit_counters.window_ms * interval '1 millisecond' <= EXCLUDED.window_start`

// Repository счетчики фиксированного окна в PostgreSQL, реализует ratelimit.Limiter
type Repository struct {
	db  DBExecutor
	now func() time.Time
}

// NewRepository создает новый экземпляр репозитория лимитера
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db, now: time.Now}
}

// CheckAndIncrement реализует ratelimit.Limiter
func (r *Repository) CheckAndIncrement(ctx context.Context, key string, window time.Duration, maxRequests int) (ratelimit.Result, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("key", "window_start", "window_ms", "count").
		Values(key, r.now().UTC(), window.Milliseconds(), 1).
		Suffix(upsertSuffix).
		ToSql()
	if err != nil {
		return ratelimit.Result{}, fmt.Errorf("%w: CheckAndIncrement - build upsert query: %v", ErrBuildQuery, err)
	}

	var (
		count       int
		windowStart time.Time
		windowMs    int64
	)
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count, &windowStart, &windowMs); err != nil {
		return ratelimit.Result{}, fmt.Errorf("%w: CheckAndIncrement - execute upsert: %v", ErrExecQuery, err)
	}

	resetAt := windowStart.Add(time.Duration(windowMs) * time.Millisecond)
	return ratelimit.BuildResult(count, maxRequests, resetAt)
}
