package get_patient_appointments

import (
	"context"

	appointmentModels "github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetPatientAppointments(ctx context.Context, req *appointmentModels.GetPatientAppointmentsRequest) (*appointmentModels.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
