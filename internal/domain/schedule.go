package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// ScheduleEntry one weekly recurring availability window of a doctor
type ScheduleEntry struct {
	ID              int64
	DoctorID        int64
	Weekday         time.Weekday // 0 = Sunday ... 6 = Saturday
	StartTime       types.ClockTime
	EndTime         types.ClockTime
	IsAvailable     bool
	MaxAppointments int // capacity of each slot derived from this entry
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Contains returns true if t falls inside [StartTime, EndTime)
func (e *ScheduleEntry) Contains(t types.ClockTime) bool {
	return !t.IsBefore(e.StartTime) && t.IsBefore(e.EndTime)
}

// OverlapsEntry returns true if both entries are on the same weekday and their ranges intersect
func (e *ScheduleEntry) OverlapsEntry(other *ScheduleEntry) bool {
	return e.Weekday == other.Weekday &&
		e.StartTime.IsBefore(other.EndTime) &&
		other.StartTime.IsBefore(e.EndTime)
}

// Less canonical ordering: weekday, then start time
func (e *ScheduleEntry) Less(other *ScheduleEntry) bool {
	if e.Weekday != other.Weekday {
		return e.Weekday < other.Weekday
	}
	return e.StartTime < other.StartTime
}
