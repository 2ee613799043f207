package get_available_slots

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// generateSlots строит свободные слоты дня по окнам расписания и снимку записей
//
// Для каждого окна кандидаты идут от startTime с шагом step, пока кандидат < endTime.
// Кандидат занимает окно [t, t+duration). Слот свободен, если число активных записей,
// пересекающихся с этим окном, меньше maxAppointments окна расписания.
// Интервалы, которые только касаются друг друга, не пересекаются.
// Слоты, начало которых уже наступило (now), не предлагаются.
//
// Функция чистая: для одних и тех же входных данных результат одинаков.
func generateSlots(
	entries []*domain.ScheduleEntry,
	appointments []*domain.Appointment,
	day time.Time,
	now time.Time,
	durationMinutes int,
	stepMinutes int,
) []Slot {
	duration := time.Duration(durationMinutes) * time.Minute
	byStart := make(map[types.ClockTime]Slot)

	for _, entry := range entries {
		if !entry.IsAvailable {
			continue
		}

		for t := entry.StartTime; t.IsBefore(entry.EndTime); t = t.AddMinutes(stepMinutes) {
			startAt := t.On(day)
			if !startAt.After(now) {
				continue
			}

			taken := domain.CountOverlapping(appointments, startAt, startAt.Add(duration))
			remaining := entry.MaxAppointments - taken
			if remaining <= 0 {
				continue
			}

			// Окна расписания не пересекаются, но дубликаты всё равно схлопываем,
			// оставляя вариант с большим запасом мест
			if existing, ok := byStart[t]; ok && existing.CapacityRemaining >= remaining {
				continue
			}
			byStart[t] = Slot{
				StartTime:         t,
				CapacityRemaining: remaining,
				TotalCapacity:     entry.MaxAppointments,
			}
		}
	}

	slots := make([]Slot, 0, len(byStart))
	for _, s := range byStart {
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartTime.IsBefore(slots[j].StartTime)
	})

	return slots
}
