package get_appointment

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgMissingActor         = "пользователь не определен"
	msgNotFound             = "запись не найдена"
	msgForbidden            = "доступ запрещен"
)

var errorMessages = map[error]string{
	appointments.ErrAppointmentNotFound: msgNotFound,
	appointments.ErrAccessDenied:        msgForbidden,
}

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments/{appointmentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /appointments/{id} - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	// Сервис сам проверит права доступа
	appointment, err := h.service.GetByID(r.Context(), actor, appointmentID)
	if err != nil {
		if handlers.IsClientError(err) {
			h.logger.Warn("GET /appointments/{id} - Request rejected: appointment_id=%d, user_id=%d, error=%v",
				appointmentID, actor.UserID, err)
		} else {
			h.logger.Error("GET /appointments/{id} - Failed to get appointment: appointment_id=%d, error=%v",
				appointmentID, err)
		}
		handlers.RespondDomainError(w, err, errorMessages)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, appointment)
}
