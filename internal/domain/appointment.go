package domain

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
)

// IsValid returns true for a known status
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true if no further transitions are allowed
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the state machine allows s -> next
// PENDING -> CONFIRMED -> COMPLETED, PENDING|CONFIRMED -> CANCELLED
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

// Appointment represents a committed booking with a doctor
type Appointment struct {
	ID              int64
	PatientID       int64
	DoctorID        int64
	ScheduledAt     time.Time
	DurationMinutes int
	Status          AppointmentStatus
	Type            string
	Symptoms        *string
	BookedBy        int64 // user id of the actor who created the booking

	CancellationReason *string
	CancelledBy        *int64
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndsAt returns the end of the appointment window
func (a *Appointment) EndsAt() time.Time {
	return a.ScheduledAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// IsActive returns true if the appointment occupies its window
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// Overlaps returns true if [ScheduledAt, EndsAt) shares an instant with [start, end)
// Touching intervals (one ends exactly where the other starts) do not overlap
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.ScheduledAt.Before(end) && a.EndsAt().After(start)
}

// CountOverlapping counts active appointments overlapping [start, end)
func CountOverlapping(appointments []*Appointment, start, end time.Time) int {
	count := 0
	for _, a := range appointments {
		if a.IsActive() && a.Overlaps(start, end) {
			count++
		}
	}
	return count
}

// AppointmentsFilter фильтр выборки записей
type AppointmentsFilter struct {
	DoctorID         *int64
	PatientID        *int64
	From             *time.Time // scheduled_at >= From
	To               *time.Time // scheduled_at < To
	Status           *AppointmentStatus
	IncludeCancelled bool
}
