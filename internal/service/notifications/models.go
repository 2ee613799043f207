package notifications

// Type тип уведомления
type Type string

const (
	TypeAppointmentBooked    Type = "APPOINTMENT_BOOKED"
	TypeAppointmentConfirmed Type = "APPOINTMENT_CONFIRMED"
	TypeAppointmentCompleted Type = "APPOINTMENT_COMPLETED"
	TypeAppointmentCancelled Type = "APPOINTMENT_CANCELLED"
)

// Notification событие для одного получателя
type Notification struct {
	UserID  int64
	Type    Type
	Title   string
	Message string
}
