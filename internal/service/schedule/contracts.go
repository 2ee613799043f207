package schedule

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetByDoctor(ctx context.Context, doctorID int64) ([]*domain.ScheduleEntry, error)
	ReplaceForDoctor(ctx context.Context, doctorID int64, entries []*domain.ScheduleEntry) (int, error)
	LockDoctor(ctx context.Context, doctorID int64) error
}

// UserServiceClient интерфейс справочника врачей
type UserServiceClient interface {
	GetDoctor(ctx context.Context, doctorID int64) (*domain.Doctor, error)
}

// DoctorLocker блокировка календаря врача внутри процесса
type DoctorLocker interface {
	Lock(ctx context.Context, doctorID int64) (func(), error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
