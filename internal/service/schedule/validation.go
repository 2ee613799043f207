package schedule

import (
	"fmt"
	"sort"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateEntries проверяет инварианты расписания до любых обращений к БД
func validateEntries(entries []*domain.ScheduleEntry) error {
	if len(entries) > domain.MaxScheduleEntries {
		return fmt.Errorf("%w: at most %d entries allowed", ErrInvalidSchedule, domain.MaxScheduleEntries)
	}

	for i, e := range entries {
		if e.Weekday < domain.MinWeekday || e.Weekday > domain.MaxWeekday {
			return fmt.Errorf("%w: entry %d: weekday must be in [%d, %d]",
				ErrInvalidSchedule, i, domain.MinWeekday, domain.MaxWeekday)
		}
		if err := e.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: entry %d: startTime: %v", ErrInvalidSchedule, i, err)
		}
		if err := e.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: entry %d: endTime: %v", ErrInvalidSchedule, i, err)
		}
		if !e.StartTime.IsBefore(e.EndTime) {
			return fmt.Errorf("%w: entry %d: startTime %s must be before endTime %s",
				ErrInvalidSchedule, i, e.StartTime, e.EndTime)
		}
		if e.MaxAppointments < domain.MinMaxAppointments || e.MaxAppointments > domain.MaxMaxAppointments {
			return fmt.Errorf("%w: entry %d: maxAppointments must be in [%d, %d]",
				ErrInvalidSchedule, i, domain.MinMaxAppointments, domain.MaxMaxAppointments)
		}
	}

	sorted := sortedEntries(entries)
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].OverlapsEntry(sorted[i]) {
			return fmt.Errorf("%w: entries %s-%s and %s-%s overlap on weekday %d",
				ErrInvalidSchedule,
				sorted[i-1].StartTime, sorted[i-1].EndTime,
				sorted[i].StartTime, sorted[i].EndTime,
				sorted[i].Weekday)
		}
	}

	return nil
}

// sortedEntries возвращает копию в канонической сортировке (weekday, startTime)
func sortedEntries(entries []*domain.ScheduleEntry) []*domain.ScheduleEntry {
	sorted := make([]*domain.ScheduleEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Less(sorted[j])
	})
	return sorted
}
