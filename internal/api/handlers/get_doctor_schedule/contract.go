package get_doctor_schedule

import (
	"context"

	scheduleModels "github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

type ScheduleService interface {
	GetSchedule(ctx context.Context, doctorID int64) (*scheduleModels.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
