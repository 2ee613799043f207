package userservice

import "errors"

var (
	// ErrDoctorNotFound возвращается, когда врач не найден в справочнике
	ErrDoctorNotFound = errors.New("userservice client: doctor not found")

	// ErrPatientNotFound возвращается, когда пациент не найден в справочнике
	ErrPatientNotFound = errors.New("userservice client: patient not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("userservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("userservice client: invalid response")
)
