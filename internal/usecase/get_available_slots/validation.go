package get_available_slots

import (
	"fmt"
	"time"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.DoctorID <= 0 {
		return fmt.Errorf("%w: doctorID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// startOfDay полночь календарной даты date в локации loc
func startOfDay(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// isBeyondHorizon проверяет ограничение записи вперёд (0 = без ограничения)
func isBeyondHorizon(day, today time.Time, advanceBookingDays int) bool {
	if advanceBookingDays <= 0 {
		return false
	}
	return day.After(today.AddDate(0, 0, advanceBookingDays))
}
