package get_patient_appointments

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	appointmentModels "github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

const (
	msgInvalidPatientID = "некорректный ID пациента"
	msgMissingActor     = "пользователь не определен"
	msgPatientNotFound  = "пациент не найден"
	msgForbidden        = "доступ запрещен"
	msgInvalidStatus    = "некорректный статус записи"
)

var errorMessages = map[error]string{
	appointments.ErrPatientNotFound: msgPatientNotFound,
	appointments.ErrAccessDenied:    msgForbidden,
	appointments.ErrInvalidStatus:   msgInvalidStatus,
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

// Handle GET /api/v1/patients/{patientId}/appointments?status=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	patientID, err := strconv.ParseInt(mux.Vars(r)["patientId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /patients/{id}/appointments - Invalid patient ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPatientID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /patients/{id}/appointments - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	req := &appointmentModels.GetPatientAppointmentsRequest{
		Actor:     actor,
		PatientID: patientID,
	}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.GetPatientAppointments(r.Context(), req)
	if err != nil {
		if handlers.IsClientError(err) {
			h.logger.Warn("GET /patients/{id}/appointments - Request rejected: patient_id=%d, user_id=%d, error=%v",
				patientID, actor.UserID, err)
		} else {
			h.logger.Error("GET /patients/{id}/appointments - Failed to get appointments: patient_id=%d, error=%v",
				patientID, err)
		}
		handlers.RespondDomainError(w, err, errorMessages)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
