package get_available_slots

import (
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrDoctorNotFound возвращается, когда врач не найден или не принимает
	ErrDoctorNotFound = domain.NewError(domain.KindNotFound, "doctor not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.KindValidation, "invalid input data")

	// ErrPersistence возвращается, когда хранилище недоступно и повторы не помогли
	ErrPersistence = domain.NewError(domain.KindPersistence, "storage unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
