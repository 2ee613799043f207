package schedule

import (
	"errors"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var (
	// ErrDoctorNotFound возвращается, когда врач не найден
	ErrDoctorNotFound = domain.NewError(domain.KindNotFound, "doctor not found")

	// ErrAccessDenied возвращается, когда расписание меняет не сам врач и не администратор
	ErrAccessDenied = domain.NewError(domain.KindPermission, "access denied")

	// ErrInvalidSchedule возвращается при нарушении инвариантов расписания
	ErrInvalidSchedule = domain.NewError(domain.KindValidation, "invalid schedule")

	// ErrPersistence возвращается при ошибках хранилища
	ErrPersistence = domain.NewError(domain.KindPersistence, "schedule storage unavailable")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedule service: internal error")
)
