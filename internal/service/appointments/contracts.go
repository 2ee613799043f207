package appointments

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/notifications"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus) (*domain.Appointment, error)
	Cancel(ctx context.Context, id int64, from domain.AppointmentStatus, cancelledBy int64, reason *string) (*domain.Appointment, error)
}

// UserServiceClient интерфейс справочника врачей и пациентов
type UserServiceClient interface {
	GetDoctor(ctx context.Context, doctorID int64) (*domain.Doctor, error)
	GetPatient(ctx context.Context, patientID int64) (*domain.Patient, error)
}

// NotificationDispatcher отправка уведомлений в фоне
type NotificationDispatcher interface {
	Dispatch(n ...notifications.Notification)
}

// MetricsCollector счетчик переходов статуса
type MetricsCollector interface {
	IncStatusTransition(from, to string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
