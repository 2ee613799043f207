package update_appointment_status

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentModels "github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// UpdateStatusRequest HTTP request model
// AppointmentID в теле необязателен, если указан - должен совпадать с ID в пути
type UpdateStatusRequest struct {
	AppointmentID      *int64  `json:"appointmentId,omitempty"`
	Status             string  `json:"status"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// MatchesPath проверяет ID записи из тела против ID из пути
func (r *UpdateStatusRequest) MatchesPath(appointmentID int64) bool {
	return r.AppointmentID == nil || *r.AppointmentID == appointmentID
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest(actor domain.Actor, appointmentID int64) *appointmentModels.UpdateStatusRequest {
	return &appointmentModels.UpdateStatusRequest{
		Actor:              actor,
		AppointmentID:      appointmentID,
		Status:             r.Status,
		CancellationReason: r.CancellationReason,
	}
}
