package create_booking

import (
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.KindValidation, "invalid input data")

	// ErrPastTime возвращается, когда время записи уже наступило
	ErrPastTime = domain.NewError(domain.KindValidation, "requested time is in the past")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = domain.NewError(domain.KindValidation, "date is too far in the future")

	// ErrDoctorNotAvailable возвращается, когда время не попадает ни в одно доступное окно расписания
	ErrDoctorNotAvailable = domain.NewError(domain.KindValidation, "doctor not available")

	// ErrDoctorNotFound возвращается, когда врач не найден или не принимает
	ErrDoctorNotFound = domain.NewError(domain.KindNotFound, "doctor not found")

	// ErrPatientNotFound возвращается, когда пациент не найден
	ErrPatientNotFound = domain.NewError(domain.KindNotFound, "patient not found")

	// ErrAccessDenied возвращается, когда пользователь не может записать этого пациента к этому врачу
	ErrAccessDenied = domain.NewError(domain.KindPermission, "access denied")

	// ErrSlotNotAvailable возвращается, когда окно записи уже занято
	ErrSlotNotAvailable = domain.NewError(domain.KindConflict, "slot is not available")

	// ErrPersistence возвращается при сбое хранилища
	ErrPersistence = domain.NewError(domain.KindPersistence, "storage unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
