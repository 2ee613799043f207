package replace_doctor_schedule

import (
	"bytes"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	scheduleModels "github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

// ReplaceScheduleRequest HTTP request model
// Тело запроса - массив окон расписания или объект {"entries": [...]}
type ReplaceScheduleRequest struct {
	Entries []scheduleModels.EntryInput `json:"entries"`
}

// UnmarshalJSON принимает оба формата тела
func (r *ReplaceScheduleRequest) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return handlers.DecodeJSONBytes(data, &r.Entries)
	}

	type wrapped ReplaceScheduleRequest
	return handlers.DecodeJSONBytes(data, (*wrapped)(r))
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *ReplaceScheduleRequest) ToServiceRequest(actor domain.Actor, doctorID int64) *scheduleModels.ReplaceScheduleRequest {
	entries := r.Entries
	if entries == nil {
		entries = []scheduleModels.EntryInput{}
	}
	return &scheduleModels.ReplaceScheduleRequest{
		Actor:    actor,
		DoctorID: doctorID,
		Entries:  entries,
	}
}
