package create_booking

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Policy параметры записи на приём
type Policy struct {
	AppointmentDurationMinutes int            // фиксированная длительность приёма
	AdvanceBookingDays         int            // 0 = без ограничения
	Location                   *time.Location // часовой пояс клиники
	QueryTimeout               time.Duration  // таймаут блокировки и транзакции
}

// Request модель запроса на создание записи
type Request struct {
	Actor       domain.Actor // Кто записывает
	PatientID   *int64       // ID пациента, для пациента можно не указывать
	DoctorID    int64        // ID врача
	RequestedAt time.Time    // Начало приёма
	Type        string       // Тип приёма
	Symptoms    *string      // Жалобы (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64
	PatientID       int64
	DoctorID        int64
	ScheduledAt     time.Time
	DurationMinutes int
	Status          domain.AppointmentStatus
	Type            string
	Symptoms        *string
	BookedBy        int64
	CreatedAt       time.Time
}

func fromDomain(a *domain.Appointment) *Response {
	return &Response{
		ID:              a.ID,
		PatientID:       a.PatientID,
		DoctorID:        a.DoctorID,
		ScheduledAt:     a.ScheduledAt,
		DurationMinutes: a.DurationMinutes,
		Status:          a.Status,
		Type:            a.Type,
		Symptoms:        a.Symptoms,
		BookedBy:        a.BookedBy,
		CreatedAt:       a.CreatedAt,
	}
}
