package replace_doctor_schedule

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
)

const (
	msgInvalidDoctorID    = "некорректный ID врача"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingActor       = "пользователь не определен"
	msgDoctorNotFound     = "врач не найден"
	msgForbidden          = "расписание может менять только сам врач или администратор"
	msgInvalidSchedule    = "некорректное расписание"
)

var errorMessages = map[error]string{
	schedule.ErrDoctorNotFound:  msgDoctorNotFound,
	schedule.ErrAccessDenied:    msgForbidden,
	schedule.ErrInvalidSchedule: msgInvalidSchedule,
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

// Handle PUT /api/v1/doctors/{doctorId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID, err := strconv.ParseInt(mux.Vars(r)["doctorId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /doctors/{id}/schedule - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PUT /doctors/{id}/schedule - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req ReplaceScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /doctors/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.ReplaceSchedule(r.Context(), req.ToServiceRequest(actor, doctorID))
	if err != nil {
		if handlers.IsClientError(err) {
			h.logger.Warn("PUT /doctors/{id}/schedule - Request rejected: doctor_id=%d, user_id=%d, error=%v",
				doctorID, actor.UserID, err)
		} else {
			h.logger.Error("PUT /doctors/{id}/schedule - Failed to replace schedule: doctor_id=%d, error=%v",
				doctorID, err)
		}
		handlers.RespondDomainError(w, err, errorMessages)
		return
	}

	h.logger.Info("PUT /doctors/{id}/schedule - Schedule replaced successfully: doctor_id=%d, entries=%d, user_id=%d",
		doctorID, result.EntriesWritten, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
