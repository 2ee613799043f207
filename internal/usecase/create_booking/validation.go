package create_booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if !req.Actor.Role.IsValid() || req.Actor.UserID <= 0 {
		return fmt.Errorf("%w: actor is required", ErrInvalidInput)
	}

	if req.DoctorID <= 0 {
		return fmt.Errorf("%w: doctorID must be positive", ErrInvalidInput)
	}

	if req.PatientID != nil && *req.PatientID <= 0 {
		return fmt.Errorf("%w: patientID must be positive", ErrInvalidInput)
	}

	if req.RequestedAt.IsZero() {
		return fmt.Errorf("%w: requested time is required", ErrInvalidInput)
	}

	appointmentType := strings.TrimSpace(req.Type)
	if appointmentType == "" {
		return fmt.Errorf("%w: type is required", ErrInvalidInput)
	}
	if len(appointmentType) > domain.MaxAppointmentTypeLength {
		return fmt.Errorf("%w: type must be at most %d characters", ErrInvalidInput, domain.MaxAppointmentTypeLength)
	}

	if req.Symptoms != nil && len(*req.Symptoms) > domain.MaxSymptomsLength {
		return fmt.Errorf("%w: symptoms must be at most %d characters", ErrInvalidInput, domain.MaxSymptomsLength)
	}

	return nil
}

// authorize проверяет, может ли пользователь записать пациента к врачу
// Пациент записывает только себя, врач - любого пациента в свой календарь, администратор - кого угодно.
func authorize(actor domain.Actor, doctor *domain.Doctor, patient *domain.Patient) error {
	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RolePatient:
		if actor.IsPatient(patient) {
			return nil
		}
	case domain.RoleDoctor:
		if actor.CanManageDoctor(doctor) {
			return nil
		}
	}
	return ErrAccessDenied
}

// validateTime проверяет, что время записи в будущем и не дальше горизонта записи
func validateTime(requestedAt, now time.Time, advanceBookingDays int) error {
	if !requestedAt.After(now) {
		return ErrPastTime
	}

	if advanceBookingDays > 0 {
		y, m, d := now.Date()
		limit := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, advanceBookingDays+1)
		if !requestedAt.Before(limit) {
			return fmt.Errorf("%w: booking is allowed at most %d days ahead", ErrDateTooFarInFuture, advanceBookingDays)
		}
	}

	return nil
}

// findEntry выбирает окно расписания, содержащее время начала приёма
// При нескольких подходящих окнах берётся окно с наибольшей вместимостью
func findEntry(entries []*domain.ScheduleEntry, at types.ClockTime) *domain.ScheduleEntry {
	var found *domain.ScheduleEntry
	for _, e := range entries {
		if !e.IsAvailable || !e.Contains(at) {
			continue
		}
		if found == nil || e.MaxAppointments > found.MaxAppointments {
			found = e
		}
	}
	return found
}

// isSerializationFailure проверяет, что транзакция проиграла конкурентной записи
func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}
