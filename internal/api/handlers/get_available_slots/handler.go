package get_available_slots

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

const (
	msgInvalidDoctorID = "некорректный ID врача"
	msgMissingDate     = "не указан параметр date"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgDoctorNotFound  = "врач не найден"
)

var errorMessages = map[error]string{
	getAvailableSlots.ErrDoctorNotFound: msgDoctorNotFound,
	getAvailableSlots.ErrInvalidInput:   msgInvalidDate,
}

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/doctors/{doctorId}/available-slots?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID, err := strconv.ParseInt(mux.Vars(r)["doctorId"], 10, 64)
	if err != nil || doctorID <= 0 {
		h.logger.Warn("GET /doctors/{id}/available-slots - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /doctors/{id}/available-slots - Missing date: doctor_id=%d", doctorID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(doctorID, dateStr)
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/available-slots - Invalid date: %q", dateStr)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if handlers.IsClientError(err) {
			h.logger.Warn("GET /doctors/{id}/available-slots - Request rejected: doctor_id=%d, error=%v", doctorID, err)
		} else {
			h.logger.Error("GET /doctors/{id}/available-slots - Failed to get slots: doctor_id=%d, error=%v", doctorID, err)
		}
		handlers.RespondDomainError(w, err, errorMessages)
		return
	}

	h.logger.Info("GET /doctors/{id}/available-slots - Returned %d slots: doctor_id=%d, date=%s",
		len(result.Slots), doctorID, dateStr)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
