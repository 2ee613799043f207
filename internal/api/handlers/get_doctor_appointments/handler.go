package get_doctor_appointments

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
)

const (
	msgInvalidDoctorID    = "некорректный ID врача"
	msgInvalidQueryParams = "некорректные параметры запроса"
	msgMissingActor       = "пользователь не определен"
	msgDoctorNotFound     = "врач не найден"
	msgForbidden          = "доступ запрещен"
	msgInvalidStatus      = "некорректный статус записи"
	msgInvalidPeriod      = "некорректный период"
)

var errorMessages = map[error]string{
	appointments.ErrDoctorNotFound: msgDoctorNotFound,
	appointments.ErrAccessDenied:   msgForbidden,
	appointments.ErrInvalidStatus:  msgInvalidStatus,
	appointments.ErrInvalidInput:   msgInvalidPeriod,
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

// Handle GET /api/v1/doctors/{doctorId}/appointments?from=&to=&status=&includeCancelled=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID, err := strconv.ParseInt(mux.Vars(r)["doctorId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/appointments - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /doctors/{id}/appointments - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	req, err := ToServiceRequest(actor, doctorID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /doctors/{id}/appointments - Invalid query params: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQueryParams)
		return
	}

	result, err := h.service.GetDoctorAppointments(r.Context(), req)
	if err != nil {
		if handlers.IsClientError(err) {
			h.logger.Warn("GET /doctors/{id}/appointments - Request rejected: doctor_id=%d, user_id=%d, error=%v",
				doctorID, actor.UserID, err)
		} else {
			h.logger.Error("GET /doctors/{id}/appointments - Failed to get appointments: doctor_id=%d, error=%v",
				doctorID, err)
		}
		handlers.RespondDomainError(w, err, errorMessages)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
