package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Policy параметры генерации слотов
type Policy struct {
	AppointmentDurationMinutes int            // длительность приёма
	SlotStepMinutes            int            // шаг между началами слотов
	AdvanceBookingDays         int            // 0 = без ограничения
	Location                   *time.Location // часовой пояс клиники
	ReadRetries                int            // повторы чтения при ошибках хранилища
	QueryTimeout               time.Duration  // таймаут одной попытки чтения
}

// Request модель запроса на получение доступных слотов
type Request struct {
	DoctorID int64     // ID врача
	Date     time.Time // Календарная дата (время суток игнорируется)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date     time.Time // Дата, на которую запрашивались слоты
	DoctorID int64     // ID врача
	Slots    []Slot    // Свободные слоты по возрастанию времени
}

// Slot модель временного слота
type Slot struct {
	StartTime         types.ClockTime // Время начала слота (например, "10:00")
	CapacityRemaining int             // Сколько ещё пациентов можно записать
	TotalCapacity     int             // maxAppointments окна расписания
}
