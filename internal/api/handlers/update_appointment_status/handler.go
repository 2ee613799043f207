package update_appointment_status

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
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingActor         = "пользователь не определен"
	msgNotFound             = "запись не найдена"
	msgForbidden            = "нет прав на изменение статуса записи"
	msgInvalidStatus        = "некорректный статус записи"
	msgIllegalTransition    = "недопустимый переход статуса"
	msgInvalidInput         = "некорректные данные запроса"
	msgStatusConflict       = "статус записи уже изменён, обновите данные"
	msgIDMismatch           = "ID записи в теле не совпадает с ID в пути"
)

var errorMessages = map[error]string{
	appointments.ErrAppointmentNotFound: msgNotFound,
	appointments.ErrAccessDenied:        msgForbidden,
	appointments.ErrInvalidStatus:       msgInvalidStatus,
	appointments.ErrIllegalTransition:   msgIllegalTransition,
	appointments.ErrInvalidInput:        msgInvalidInput,
	appointments.ErrStatusConflict:      msgStatusConflict,
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

// Handle PATCH /api/v1/appointments/{appointmentId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/status - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PATCH /appointments/{id}/status - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if !req.MatchesPath(appointmentID) {
		h.logger.Warn("PATCH /appointments/{id}/status - Appointment ID mismatch: path=%d, body=%d",
			appointmentID, *req.AppointmentID)
		handlers.RespondBadRequest(w, msgIDMismatch)
		return
	}

	appointment, err := h.service.UpdateStatus(r.Context(), req.ToServiceRequest(actor, appointmentID))
	if err != nil {
		if handlers.IsClientError(err) {
			h.logger.Warn("PATCH /appointments/{id}/status - Request rejected: appointment_id=%d, user_id=%d, status=%s, error=%v",
				appointmentID, actor.UserID, req.Status, err)
		} else {
			h.logger.Error("PATCH /appointments/{id}/status - Failed to update status: appointment_id=%d, error=%v",
				appointmentID, err)
		}
		handlers.RespondDomainError(w, err, errorMessages)
		return
	}

	h.logger.Info("PATCH /appointments/{id}/status - Status updated successfully: appointment_id=%d, status=%s, user_id=%d",
		appointmentID, appointment.Status, actor.UserID)
	handlers.RespondJSON(w, http.StatusOK, appointment)
}
