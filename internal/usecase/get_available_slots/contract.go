package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetOverlapping получает активные записи врача, пересекающиеся с [start, end)
	GetOverlapping(ctx context.Context, doctorID int64, start, end time.Time) ([]*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetAvailableByWeekday(ctx context.Context, doctorID int64, weekday time.Weekday) ([]*domain.ScheduleEntry, error)
}

// UserServiceClient интерфейс справочника врачей
type UserServiceClient interface {
	GetDoctor(ctx context.Context, doctorID int64) (*domain.Doctor, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsCollector счетчик запросов слотов
type MetricsCollector interface {
	IncSlotQuery()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
