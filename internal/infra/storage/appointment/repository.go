package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const tableName = "appointments"

var columns = []string{
	"id",
	"patient_id",
	"doctor_id",
	"scheduled_at",
	"duration_minutes",
	"status",
	"type",
	"symptoms",
	"booked_by",
	"cancellation_reason",
	"cancelled_by",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// endsAtExpr конец окна записи в SQL
const endsAtExpr = "scheduled_at + duration_minutes * interval '1 minute'"

// Repository репозиторий записей на приём
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую запись
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"patient_id",
			"doctor_id",
			"scheduled_at",
			"duration_minutes",
			"status",
			"type",
			"symptoms",
			"booked_by",
		).
		Values(
			a.PatientID,
			a.DoctorID,
			a.ScheduledAt.UTC(),
			a.DurationMinutes,
			a.Status,
			a.Type,
			a.Symptoms,
			a.BookedBy,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return a, nil
}

// List возвращает записи по фильтру
// Поддерживает фильтрацию по:
// - врачу и/или пациенту
// - периоду [From, To) по scheduled_at
// - статусу; без статуса отменённые исключаются, если не указан IncludeCancelled
//
// Сортировка по scheduled_at ASC.
func (r *Repository) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		OrderBy("scheduled_at ASC", "id ASC")

	if filter.DoctorID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"doctor_id": *filter.DoctorID})
	}
	if filter.PatientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"patient_id": *filter.PatientID})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"scheduled_at": filter.From.UTC()})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"scheduled_at": filter.To.UTC()})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.StatusCancelled})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// GetOverlapping возвращает активные (не отменённые) записи врача, окно которых
// пересекается с [start, end). Строки не блокируются, подходит для read-only транзакций.
func (r *Repository) GetOverlapping(ctx context.Context, doctorID int64, start, end time.Time) ([]*domain.Appointment, error) {
	return r.overlapping(ctx, "GetOverlapping", doctorID, start, end, false)
}

// LockOverlapping как GetOverlapping, но блокирует найденные строки (FOR UPDATE).
// Вызывается только внутри транзакции.
func (r *Repository) LockOverlapping(ctx context.Context, doctorID int64, start, end time.Time) ([]*domain.Appointment, error) {
	if !dbmetrics.IsInTransaction(ctx) {
		return nil, ErrTransactionRequired
	}
	return r.overlapping(ctx, "LockOverlapping", doctorID, start, end, true)
}

func (r *Repository) overlapping(
	ctx context.Context,
	op string,
	doctorID int64,
	start, end time.Time,
	forUpdate bool,
) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(tableName).
		Where(squirrel.Eq{"doctor_id": doctorID}).
		Where(squirrel.NotEq{"status": domain.StatusCancelled}).
		Where(squirrel.Lt{"scheduled_at": end.UTC()}).
		Where(squirrel.Expr(endsAtExpr+" > ?", start.UTC())).
		OrderBy("scheduled_at ASC", "id ASC")

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// UpdateStatus переводит запись из статуса from в статус to (compare-and-set).
// Если строка существует, но её статус уже не from, возвращает ErrStatusChanged.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus) (*domain.Appointment, error) {
	return r.update(ctx, "UpdateStatus", id, from, psqlbuilder.Update(tableName).
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")))
}

// Cancel отменяет запись с указанием причины и автора (compare-and-set по статусу)
func (r *Repository) Cancel(ctx context.Context, id int64, from domain.AppointmentStatus, cancelledBy int64, reason *string) (*domain.Appointment, error) {
	return r.update(ctx, "Cancel", id, from, psqlbuilder.Update(tableName).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_by", cancelledBy).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")))
}

func (r *Repository) update(
	ctx context.Context,
	op string,
	id int64,
	from domain.AppointmentStatus,
	updateBuilder squirrel.UpdateBuilder,
) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := updateBuilder.
		Where(squirrel.Eq{"id": id, "status": from}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	// Ни одна строка не обновлена: либо записи нет, либо статус уже другой
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrStatusChanged
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		a                    domain.Appointment
		createdAt, updatedAt sql.NullTime
		cancelledAt          sql.NullTime
		cancelledBy          sql.NullInt64
		symptoms, reason     sql.NullString
	)

	if err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&a.ScheduledAt,
		&a.DurationMinutes,
		&a.Status,
		&a.Type,
		&symptoms,
		&a.BookedBy,
		&reason,
		&cancelledBy,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	if symptoms.Valid {
		a.Symptoms = &symptoms.String
	}
	if reason.Valid {
		a.CancellationReason = &reason.String
	}
	if cancelledBy.Valid {
		a.CancelledBy = &cancelledBy.Int64
	}
	if cancelledAt.Valid {
		a.CancelledAt = &cancelledAt.Time
	}
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}

func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan appointment: %v", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}
