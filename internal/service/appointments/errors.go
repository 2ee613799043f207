package appointments

import (
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = domain.NewError(domain.KindNotFound, "appointment not found")

	// ErrDoctorNotFound возвращается, когда врач не найден
	ErrDoctorNotFound = domain.NewError(domain.KindNotFound, "doctor not found")

	// ErrPatientNotFound возвращается, когда пациент не найден
	ErrPatientNotFound = domain.NewError(domain.KindNotFound, "patient not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на действие
	ErrAccessDenied = domain.NewError(domain.KindPermission, "access denied")

	// ErrInvalidStatus возвращается при неизвестном статусе
	ErrInvalidStatus = domain.NewError(domain.KindValidation, "invalid appointment status")

	// ErrIllegalTransition возвращается при недопустимом переходе статуса
	ErrIllegalTransition = domain.NewError(domain.KindValidation, "illegal status transition")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = domain.NewError(domain.KindValidation, "invalid input data")

	// ErrStatusConflict возвращается, когда статус записи изменили параллельно
	ErrStatusConflict = domain.NewError(domain.KindConflict, "appointment status changed concurrently")

	// ErrPersistence возвращается при ошибках хранилища
	ErrPersistence = domain.NewError(domain.KindPersistence, "appointment storage unavailable")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments service: internal error")
)
