package notifications

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const messageTimeLayout = "02.01.2006 15:04"

// Booked уведомления врачу и пациенту о новой записи
func Booked(a *domain.Appointment, doctor *domain.Doctor, patient *domain.Patient, loc *time.Location) []Notification {
	when := a.ScheduledAt.In(loc).Format(messageTimeLayout)
	return []Notification{
		{
			UserID:  doctor.UserID,
			Type:    TypeAppointmentBooked,
			Title:   "Новая запись на приём",
			Message: fmt.Sprintf("%s записан(а) к вам на %s", patient.FullName, when),
		},
		{
			UserID:  patient.UserID,
			Type:    TypeAppointmentBooked,
			Title:   "Вы записаны на приём",
			Message: fmt.Sprintf("Запись к врачу %s на %s ожидает подтверждения", doctor.FullName, when),
		},
	}
}

// StatusChanged уведомление второй стороне о смене статуса записи
// recipient - пользователь, который не инициировал изменение
func StatusChanged(a *domain.Appointment, recipientUserID int64, loc *time.Location) Notification {
	when := a.ScheduledAt.In(loc).Format(messageTimeLayout)

	n := Notification{UserID: recipientUserID}
	switch a.Status {
	case domain.StatusConfirmed:
		n.Type = TypeAppointmentConfirmed
		n.Title = "Запись подтверждена"
		n.Message = fmt.Sprintf("Приём на %s подтверждён врачом", when)
	case domain.StatusCompleted:
		n.Type = TypeAppointmentCompleted
		n.Title = "Приём завершён"
		n.Message = fmt.Sprintf("Приём на %s отмечен как завершённый", when)
	default:
		n.Type = TypeAppointmentCancelled
		n.Title = "Запись отменена"
		n.Message = fmt.Sprintf("Приём на %s отменён", when)
		if a.CancellationReason != nil && *a.CancellationReason != "" {
			n.Message += ": " + *a.CancellationReason
		}
	}
	return n
}
