package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date           string         `json:"date"`
	DoctorID       int64          `json:"doctorId"`
	AvailableSlots []string       `json:"availableSlots"`
	Slots          []SlotResponse `json:"slots"`
}

// SlotResponse слот с оставшейся вместимостью
type SlotResponse struct {
	StartTime         string `json:"startTime"`
	CapacityRemaining int    `json:"capacityRemaining"`
	TotalCapacity     int    `json:"totalCapacity"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	out := &AvailableSlotsResponse{
		Date:           resp.Date.Format(domain.DateFormat),
		DoctorID:       resp.DoctorID,
		AvailableSlots: make([]string, len(resp.Slots)),
		Slots:          make([]SlotResponse, len(resp.Slots)),
	}

	for i, s := range resp.Slots {
		out.AvailableSlots[i] = s.StartTime.String()
		out.Slots[i] = SlotResponse{
			StartTime:         s.StartTime.String(),
			CapacityRemaining: s.CapacityRemaining,
			TotalCapacity:     s.TotalCapacity,
		}
	}

	return out
}

// ToUseCaseRequest собирает запрос use case из параметров URL
func ToUseCaseRequest(doctorID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		DoctorID: doctorID,
		Date:     date,
	}, nil
}
