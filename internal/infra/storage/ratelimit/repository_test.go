package ratelimit

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/ratelimit"
)

// upsertPattern проверяет вставку и обе ветки CASE в ON CONFLICT
func upsertPattern() string {
	expired := strings.Join(strings.Fields(expiredCond), " ")
	parts := []string{
		"INSERT INTO rate_limit_counters (key,window_start,window_ms,count) VALUES ($1,$2,$3,$4) " +
			"ON CONFLICT (key) DO UPDATE SET count = CASE WHEN " + expired + " THEN 1 ELSE rate_limit_counters.count + 1 END",
		"window_start = CASE WHEN " + expired + " THEN EXCLUDED.window_start ELSE rate_limit_counters.window_start END",
		"window_ms = EXCLUDED.window_ms RETURNING count, window_start, window_ms",
	}
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return "^" + strings.Join(parts, ", ") + "$"
}

func newRepo(t *testing.T, now time.Time) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewRepository(db)
	repo.now = func() time.Time { return now }
	return repo, mock
}

func counterRows(count int64, windowStart time.Time, windowMs int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count", "window_start", "window_ms"}).AddRow(count, windowStart, windowMs)
}

func TestRepository_CheckAndIncrement(t *testing.T) {
	now := time.Date(2025, 3, 3, 10, 0, 30, 0, time.UTC)
	windowStart := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		count         int64
		windowStart   time.Time
		wantErr       error
		wantAllowed   bool
		wantRemaining int
		wantResetAt   time.Time
	}{
		{
			name:          "first request in window",
			count:         1,
			windowStart:   now,
			wantAllowed:   true,
			wantRemaining: 4,
			wantResetAt:   now.Add(time.Minute),
		},
		{
			name:          "last allowed request",
			count:         5,
			windowStart:   windowStart,
			wantAllowed:   true,
			wantRemaining: 0,
			wantResetAt:   windowStart.Add(time.Minute),
		},
		{
			name:          "limit exceeded",
			count:         6,
			windowStart:   windowStart,
			wantErr:       ratelimit.ErrLimitExceeded,
			wantAllowed:   false,
			wantRemaining: 0,
			wantResetAt:   windowStart.Add(time.Minute),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepo(t, now)

			mock.ExpectQuery(upsertPattern()).
				WithArgs("user:7", now, int64(60000), int64(1)).
				WillReturnRows(counterRows(tt.count, tt.windowStart, 60000))

			res, err := repo.CheckAndIncrement(context.Background(), "user:7", time.Minute, 5)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantAllowed, res.Allowed)
			assert.Equal(t, 5, res.Limit)
			assert.Equal(t, tt.wantRemaining, res.Remaining)
			assert.Equal(t, tt.wantResetAt, res.ResetAt)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_CheckAndIncrement_WindowReset(t *testing.T) {
	// Прошлое окно истекло: upsert сбросил счетчик и сдвинул window_start на now
	now := time.Date(2025, 3, 3, 10, 5, 0, 0, time.UTC)
	repo, mock := newRepo(t, now)

	mock.ExpectQuery(upsertPattern()).
		WithArgs("ip:10.0.0.1", now, int64(1000), int64(1)).
		WillReturnRows(counterRows(1, now, 1000))

	res, err := repo.CheckAndIncrement(context.Background(), "ip:10.0.0.1", time.Second, 3)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 2, res.Remaining)
	assert.Equal(t, now.Add(time.Second), res.ResetAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CheckAndIncrement_StartsInUTC(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	now := time.Date(2025, 3, 3, 13, 0, 0, 0, moscow)
	repo, mock := newRepo(t, now)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO rate_limit_counters")).
		WithArgs("user:7", now.UTC(), int64(60000), int64(1)).
		WillReturnRows(counterRows(1, now.UTC(), 60000))

	_, err := repo.CheckAndIncrement(context.Background(), "user:7", time.Minute, 5)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CheckAndIncrement_QueryFails(t *testing.T) {
	repo, mock := newRepo(t, time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO rate_limit_counters")).WillReturnError(sql.ErrConnDone)

	_, err := repo.CheckAndIncrement(context.Background(), "user:7", time.Minute, 5)
	assert.ErrorIs(t, err, ErrExecQuery)
	assert.False(t, errors.Is(err, ratelimit.ErrLimitExceeded))
	assert.NoError(t, mock.ExpectationsWereMet())
}
