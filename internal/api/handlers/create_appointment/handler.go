package create_appointment

import (
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidWhen        = "некорректный формат времени приёма, ожидается ISO 8601"
	msgMissingActor       = "пользователь не определен"
	msgInvalidInput       = "некорректные данные записи"
	msgPastTime           = "время приёма уже прошло"
	msgDateTooFar         = "дата приёма слишком далеко в будущем"
	msgDoctorNotAvailable = "врач не принимает в выбранное время"
	msgDoctorNotFound     = "врач не найден"
	msgPatientNotFound    = "пациент не найден"
	msgForbidden          = "нет прав на запись этого пациента к этому врачу"
	msgSlotNotAvailable   = "выбранное время уже занято"
)

var errorMessages = map[error]string{
	createBooking.ErrInvalidInput:       msgInvalidInput,
	createBooking.ErrPastTime:           msgPastTime,
	createBooking.ErrDateTooFarInFuture: msgDateTooFar,
	createBooking.ErrDoctorNotAvailable: msgDoctorNotAvailable,
	createBooking.ErrDoctorNotFound:     msgDoctorNotFound,
	createBooking.ErrPatientNotFound:    msgPatientNotFound,
	createBooking.ErrAccessDenied:       msgForbidden,
	createBooking.ErrSlotNotAvailable:   msgSlotNotAvailable,
}

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing actor")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor)
	if err != nil {
		h.logger.Warn("POST /appointments - Invalid time: when=%q, error=%v", req.When, err)
		handlers.RespondBadRequest(w, msgInvalidWhen)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if handlers.IsClientError(err) {
			h.logger.Warn("POST /appointments - Booking rejected: user_id=%d, doctor_id=%d, error=%v",
				actor.UserID, req.DoctorID, err)
		} else {
			h.logger.Error("POST /appointments - Failed to create appointment: user_id=%d, doctor_id=%d, error=%v",
				actor.UserID, req.DoctorID, err)
		}
		handlers.RespondDomainError(w, err, errorMessages)
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, user_id=%d, doctor_id=%d",
		result.ID, actor.UserID, result.DoctorID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
