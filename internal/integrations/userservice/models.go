package userservice

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

// Doctor модель врача из UserService
type Doctor struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"user_id"`
	FullName string `json:"full_name"`
	IsActive bool   `json:"is_active"`
}

// Patient модель пациента из UserService
type Patient struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"user_id"`
	FullName string `json:"full_name"`
}

// ErrorResponse модель ошибки от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ToDomain конвертирует в domain модель
func (d *Doctor) ToDomain() *domain.Doctor {
	return &domain.Doctor{
		ID:       d.ID,
		UserID:   d.UserID,
		FullName: d.FullName,
		IsActive: d.IsActive,
	}
}

// ToDomain конвертирует в domain модель
func (p *Patient) ToDomain() *domain.Patient {
	return &domain.Patient{
		ID:       p.ID,
		UserID:   p.UserID,
		FullName: p.FullName,
	}
}
