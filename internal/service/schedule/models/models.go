package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модели

// EntryInput одно окно расписания во входном запросе
type EntryInput struct {
	Weekday         int             `json:"weekday"`                   // 0 = воскресенье ... 6 = суббота
	StartTime       types.ClockTime `json:"startTime"`                 // "09:00"
	EndTime         types.ClockTime `json:"endTime"`                   // "13:00"
	IsAvailable     *bool           `json:"isAvailable,omitempty"`     // по умолчанию true
	MaxAppointments *int            `json:"maxAppointments,omitempty"` // по умолчанию 1
}

// ReplaceScheduleRequest запрос на полную замену расписания врача
type ReplaceScheduleRequest struct {
	Actor    domain.Actor `json:"-"`
	DoctorID int64        `json:"doctorId"`
	Entries  []EntryInput `json:"entries"`
}

// ToDomainEntries конвертирует вход в domain модели с подстановкой значений по умолчанию
func (r *ReplaceScheduleRequest) ToDomainEntries() []*domain.ScheduleEntry {
	entries := make([]*domain.ScheduleEntry, len(r.Entries))
	for i, in := range r.Entries {
		isAvailable := true
		if in.IsAvailable != nil {
			isAvailable = *in.IsAvailable
		}
		maxAppointments := domain.DefaultMaxAppointments
		if in.MaxAppointments != nil {
			maxAppointments = *in.MaxAppointments
		}
		entries[i] = &domain.ScheduleEntry{
			DoctorID:        r.DoctorID,
			Weekday:         time.Weekday(in.Weekday),
			StartTime:       in.StartTime,
			EndTime:         in.EndTime,
			IsAvailable:     isAvailable,
			MaxAppointments: maxAppointments,
		}
	}
	return entries
}

// Response модели

// EntryResponse окно расписания
type EntryResponse struct {
	ID              int64           `json:"id"`
	Weekday         int             `json:"weekday"`
	StartTime       types.ClockTime `json:"startTime"`
	EndTime         types.ClockTime `json:"endTime"`
	IsAvailable     bool            `json:"isAvailable"`
	MaxAppointments int             `json:"maxAppointments"`
}

// ScheduleResponse расписание врача в канонической сортировке
type ScheduleResponse struct {
	DoctorID int64           `json:"doctorId"`
	Entries  []EntryResponse `json:"entries"`
}

// ReplaceScheduleResponse результат замены расписания
type ReplaceScheduleResponse struct {
	DoctorID       int64 `json:"doctorId"`
	EntriesWritten int   `json:"entriesWritten"`
}

// Методы конвертации

// FromDomainSchedule конвертирует domain модели в DTO
func FromDomainSchedule(doctorID int64, entries []*domain.ScheduleEntry) *ScheduleResponse {
	resp := &ScheduleResponse{
		DoctorID: doctorID,
		Entries:  make([]EntryResponse, len(entries)),
	}
	for i, e := range entries {
		resp.Entries[i] = EntryResponse{
			ID:              e.ID,
			Weekday:         int(e.Weekday),
			StartTime:       e.StartTime,
			EndTime:         e.EndTime,
			IsAvailable:     e.IsAvailable,
			MaxAppointments: e.MaxAppointments,
		}
	}
	return resp
}
