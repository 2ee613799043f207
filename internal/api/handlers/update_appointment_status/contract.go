package update_appointment_status

import (
	"context"

	appointmentModels "github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

type AppointmentService interface {
	UpdateStatus(ctx context.Context, req *appointmentModels.UpdateStatusRequest) (*appointmentModels.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
