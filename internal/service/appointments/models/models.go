package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	Actor              domain.Actor `json:"-"`
	AppointmentID      int64        `json:"appointmentId"`
	Status             string       `json:"status"`
	CancellationReason *string      `json:"cancellationReason,omitempty"`
}

// GetPatientAppointmentsRequest запрос на получение записей пациента
type GetPatientAppointmentsRequest struct {
	Actor     domain.Actor `json:"-"`
	PatientID int64        `json:"patientId"`
	Status    *string      `json:"status,omitempty"`
}

// GetDoctorAppointmentsRequest запрос на получение записей врача
type GetDoctorAppointmentsRequest struct {
	Actor            domain.Actor `json:"-"`
	DoctorID         int64        `json:"doctorId"`
	From             *time.Time   `json:"from,omitempty"` // Начало периода (опционально)
	To               *time.Time   `json:"to,omitempty"`   // Конец периода, не включая (опционально)
	Status           *string      `json:"status,omitempty"`
	IncludeCancelled bool         `json:"includeCancelled,omitempty"`
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	PatientID       int64   `json:"patientId"`
	DoctorID        int64   `json:"doctorId"`
	ScheduledAt     string  `json:"scheduledAt"` // ISO 8601
	EndsAt          string  `json:"endsAt"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	Type            string  `json:"type"`
	Symptoms        *string `json:"symptoms,omitempty"`
	BookedBy        int64   `json:"bookedBy"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledBy        *int64  `json:"cancelledBy,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
// Время отдаётся в часовом поясе клиники
func FromDomainAppointment(a *domain.Appointment, loc *time.Location) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		PatientID:          a.PatientID,
		DoctorID:           a.DoctorID,
		ScheduledAt:        a.ScheduledAt.In(loc).Format(time.RFC3339),
		EndsAt:             a.EndsAt().In(loc).Format(time.RFC3339),
		DurationMinutes:    a.DurationMinutes,
		Status:             string(a.Status),
		Type:               a.Type,
		Symptoms:           a.Symptoms,
		BookedBy:           a.BookedBy,
		CancellationReason: a.CancellationReason,
		CancelledBy:        a.CancelledBy,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		cancelledStr := a.CancelledAt.In(loc).Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(list []*domain.Appointment, loc *time.Location) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(list)),
	}

	for _, a := range list {
		if r := FromDomainAppointment(a, loc); r != nil {
			resp.Appointments = append(resp.Appointments, *r)
		}
	}

	return resp
}

// ToDomainStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
