package domain

// Default booking policy values
const (
	DefaultAppointmentDurationMinutes = 60
	DefaultSlotStepMinutes            = 30
	DefaultMaxAppointments            = 1
)

// Business validation constants
const (
	MinWeekday                  = 0
	MaxWeekday                  = 6
	MinMaxAppointments          = 1
	MaxMaxAppointments          = 50
	MaxScheduleEntries          = 100
	MaxAppointmentTypeLength    = 64
	MaxSymptomsLength           = 2000
	MaxCancellationReasonLength = 500
)

// DateFormat calendar date layout (YYYY-MM-DD)
const DateFormat = "2006-01-02"
