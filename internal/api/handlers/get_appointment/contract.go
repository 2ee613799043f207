package get_appointment

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentModels "github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetByID(ctx context.Context, actor domain.Actor, id int64) (*appointmentModels.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
