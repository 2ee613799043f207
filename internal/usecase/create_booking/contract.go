package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/notifications"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// LockOverlapping блокирует (FOR UPDATE) и возвращает активные записи врача, пересекающиеся с [start, end)
	LockOverlapping(ctx context.Context, doctorID int64, start, end time.Time) ([]*domain.Appointment, error)
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	// LockDoctor транзакционная advisory-блокировка календаря врача
	LockDoctor(ctx context.Context, doctorID int64) error
	GetAvailableByWeekday(ctx context.Context, doctorID int64, weekday time.Weekday) ([]*domain.ScheduleEntry, error)
}

// UserServiceClient интерфейс справочника врачей и пациентов
type UserServiceClient interface {
	GetDoctor(ctx context.Context, doctorID int64) (*domain.Doctor, error)
	GetPatient(ctx context.Context, patientID int64) (*domain.Patient, error)
	GetPatientByUserID(ctx context.Context, userID int64) (*domain.Patient, error)
}

// DoctorLocker блокировка календаря врача внутри процесса
type DoctorLocker interface {
	Lock(ctx context.Context, doctorID int64) (func(), error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// NotificationDispatcher отправка уведомлений без ожидания результата
type NotificationDispatcher interface {
	Dispatch(n ...notifications.Notification)
}

// MetricsCollector счетчик попыток бронирования
type MetricsCollector interface {
	IncBooking(outcome string)
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
