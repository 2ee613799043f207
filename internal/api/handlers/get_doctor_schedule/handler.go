package get_doctor_schedule

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
)

const (
	msgInvalidDoctorID = "некорректный ID врача"
	msgDoctorNotFound  = "врач не найден"
)

var errorMessages = map[error]string{
	schedule.ErrDoctorNotFound: msgDoctorNotFound,
}

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/doctors/{doctorId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID, err := strconv.ParseInt(mux.Vars(r)["doctorId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/schedule - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	result, err := h.service.GetSchedule(r.Context(), doctorID)
	if err != nil {
		if handlers.IsClientError(err) {
			h.logger.Warn("GET /doctors/{id}/schedule - Request rejected: doctor_id=%d, error=%v", doctorID, err)
		} else {
			h.logger.Error("GET /doctors/{id}/schedule - Failed to get schedule: doctor_id=%d, error=%v", doctorID, err)
		}
		handlers.RespondDomainError(w, err, errorMessages)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
