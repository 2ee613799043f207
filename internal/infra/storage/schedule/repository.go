package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const tableName = "doctor_schedules"

var columns = []string{
	"id",
	"doctor_id",
	"weekday",
	"start_time",
	"end_time",
	"is_available",
	"max_appointments",
	"created_at",
	"updated_at",
}

// Repository репозиторий недельного расписания врачей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByDoctor возвращает все записи расписания врача в порядке (weekday, start_time)
func (r *Repository) GetByDoctor(ctx context.Context, doctorID int64) ([]*domain.ScheduleEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"doctor_id": doctorID}).
		OrderBy("weekday ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDoctor - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDoctor - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// GetAvailableByWeekday возвращает доступные (is_available = true) окна врача на день недели
func (r *Repository) GetAvailableByWeekday(ctx context.Context, doctorID int64, weekday time.Weekday) ([]*domain.ScheduleEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{
			"doctor_id":    doctorID,
			"weekday":      int(weekday),
			"is_available": true,
		}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetAvailableByWeekday - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAvailableByWeekday - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ReplaceForDoctor удаляет всё расписание врача и вставляет новое.
// Вызывается только внутри транзакции: снаружи удаление и вставка
// выглядят как одна операция, пустое расписание никто не увидит.
func (r *Repository) ReplaceForDoctor(ctx context.Context, doctorID int64, entries []*domain.ScheduleEntry) (int, error) {
	if !dbmetrics.IsInTransaction(ctx) {
		return 0, ErrTransactionRequired
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"doctor_id": doctorID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: ReplaceForDoctor - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return 0, fmt.Errorf("%w: ReplaceForDoctor - execute delete: %v", ErrExecQuery, err)
	}

	if len(entries) == 0 {
		return 0, nil
	}

	insert := psqlbuilder.Insert(tableName).
		Columns("doctor_id", "weekday", "start_time", "end_time", "is_available", "max_appointments")
	for _, e := range entries {
		insert = insert.Values(doctorID, int(e.Weekday), e.StartTime, e.EndTime, e.IsAvailable, e.MaxAppointments)
	}

	insertQuery, insertArgs, err := insert.
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: ReplaceForDoctor - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, insertQuery, insertArgs...)
	if err != nil {
		return 0, fmt.Errorf("%w: ReplaceForDoctor - execute insert: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	// RETURNING отдаёт строки в порядке VALUES
	written := 0
	for rows.Next() {
		var createdAt, updatedAt sql.NullTime
		e := entries[written]
		if err := rows.Scan(&e.ID, &createdAt, &updatedAt); err != nil {
			return 0, fmt.Errorf("%w: ReplaceForDoctor - scan inserted row: %v", ErrScanRow, err)
		}
		e.DoctorID = doctorID
		e.CreatedAt = createdAt.Time
		e.UpdatedAt = updatedAt.Time
		written++
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("%w: ReplaceForDoctor - rows error: %v", ErrScanRow, err)
	}

	return written, nil
}

// LockDoctor берёт транзакционную advisory-блокировку календаря врача.
// Блокировка снимается при commit/rollback. Ею сериализуются запись на приём
// и замена расписания одного врача между всеми экземплярами сервиса.
func (r *Repository) LockDoctor(ctx context.Context, doctorID int64) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrTransactionRequired
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select().
		Column(squirrel.Expr("pg_advisory_xact_lock(?)", doctorID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: LockDoctor - build query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: LockDoctor - execute: %w", ErrExecQuery, err)
	}
	return nil
}

func scanEntries(rows *sql.Rows) ([]*domain.ScheduleEntry, error) {
	entries := make([]*domain.ScheduleEntry, 0)
	for rows.Next() {
		var (
			e                    domain.ScheduleEntry
			weekday              int
			createdAt, updatedAt sql.NullTime
		)
		if err := rows.Scan(
			&e.ID,
			&e.DoctorID,
			&weekday,
			&e.StartTime,
			&e.EndTime,
			&e.IsAvailable,
			&e.MaxAppointments,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scan schedule entry: %v", ErrScanRow, err)
		}
		e.Weekday = time.Weekday(weekday)
		e.CreatedAt = createdAt.Time
		e.UpdatedAt = updatedAt.Time
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}
