package get_doctor_appointments

import (
	"context"

	appointmentModels "github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetDoctorAppointments(ctx context.Context, req *appointmentModels.GetDoctorAppointmentsRequest) (*appointmentModels.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
