package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	DoctorID  int64   `json:"doctorId"`
	PatientID *int64  `json:"patientId,omitempty"`
	When      string  `json:"when"` // ISO 8601, "2026-10-19T09:00:00+03:00"
	Type      string  `json:"type"`
	Symptoms  *string `json:"symptoms,omitempty"`
}

// CreateAppointmentResponse HTTP response model
type CreateAppointmentResponse struct {
	AppointmentID int64  `json:"appointmentId"`
	Status        string `json:"status"`
	ScheduledAt   string `json:"scheduledAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(actor domain.Actor) (*createBooking.Request, error) {
	when, err := time.Parse(time.RFC3339, r.When)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		Actor:       actor,
		PatientID:   r.PatientID,
		DoctorID:    r.DoctorID,
		RequestedAt: when,
		Type:        r.Type,
		Symptoms:    r.Symptoms,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateAppointmentResponse {
	return &CreateAppointmentResponse{
		AppointmentID: resp.ID,
		Status:        string(resp.Status),
		ScheduledAt:   resp.ScheduledAt.Format(time.RFC3339),
	}
}
