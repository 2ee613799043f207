package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	userClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/internal/service/notifications"
)

// Service сервис записей на приём: чтение и машина состояний статуса
type Service struct {
	appointmentRepo AppointmentRepository
	userClient      UserServiceClient
	dispatcher      NotificationDispatcher
	metrics         MetricsCollector
	location        *time.Location
	queryTimeout    time.Duration
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
// metrics может быть nil
func NewService(
	appointmentRepo AppointmentRepository,
	userClient UserServiceClient,
	dispatcher NotificationDispatcher,
	metrics MetricsCollector,
	location *time.Location,
	queryTimeout time.Duration,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		userClient:      userClient,
		dispatcher:      dispatcher,
		metrics:         metrics,
		location:        location,
		queryTimeout:    queryTimeout,
		logger:          logger,
	}
}

// parties участники записи
type parties struct {
	doctor  *domain.Doctor
	patient *domain.Patient
}

// GetByID получает запись по ID
// Видят запись пациент, врач и администратор
func (s *Service) GetByID(ctx context.Context, actor domain.Actor, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d (role=%s)", id, actor.UserID, actor.Role)

	appointment, err := s.getAppointment(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	p, err := s.getParties(ctx, "GetByID", appointment)
	if err != nil {
		return nil, err
	}

	if !actor.CanManageDoctor(p.doctor) && !actor.IsPatient(p.patient) {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", actor.UserID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appointment, s.location), nil
}

// GetPatientAppointments получает записи пациента
// Доступно самому пациенту и администратору. Опционально фильтрует по статусу
func (s *Service) GetPatientAppointments(ctx context.Context, req *models.GetPatientAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetPatientAppointments: fetching appointments for patient=%d, status=%v by user=%d",
		req.PatientID, req.Status, req.Actor.UserID)

	patient, err := s.getPatient(ctx, "GetPatientAppointments", req.PatientID)
	if err != nil {
		return nil, err
	}

	if !req.Actor.IsAdmin() && !req.Actor.IsPatient(patient) {
		s.logger.Warn("GetPatientAppointments: access denied for user=%d to patient=%d", req.Actor.UserID, req.PatientID)
		return nil, ErrAccessDenied
	}

	filter := domain.AppointmentsFilter{
		PatientID:        &req.PatientID,
		IncludeCancelled: true,
	}
	if req.Status != nil {
		status, err := toDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetPatientAppointments: invalid status=%s", *req.Status)
			return nil, err
		}
		filter.Status = &status
	}

	return s.list(ctx, "GetPatientAppointments", filter)
}

// GetDoctorAppointments получает записи врача с фильтрацией по периоду и статусу
// Доступно самому врачу и администратору
//
// Примеры использования:
// - Все активные записи: GetDoctorAppointments(ctx, &GetDoctorAppointmentsRequest{DoctorID: 7})
// - Записи за неделю: указать From и To
// - Только подтверждённые: Status = "CONFIRMED"
// - Включая отменённые: IncludeCancelled = true
func (s *Service) GetDoctorAppointments(ctx context.Context, req *models.GetDoctorAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetDoctorAppointments: fetching appointments for doctor=%d, from=%v, to=%v, status=%v, includeCancelled=%t by user=%d",
		req.DoctorID, req.From, req.To, req.Status, req.IncludeCancelled, req.Actor.UserID)

	if req.From != nil && req.To != nil && !req.From.Before(*req.To) {
		s.logger.Warn("GetDoctorAppointments: invalid period from=%s to=%s", req.From, req.To)
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}

	doctor, err := s.getDoctor(ctx, "GetDoctorAppointments", req.DoctorID)
	if err != nil {
		return nil, err
	}

	if !req.Actor.CanManageDoctor(doctor) {
		s.logger.Warn("GetDoctorAppointments: access denied for user=%d to doctor=%d", req.Actor.UserID, req.DoctorID)
		return nil, ErrAccessDenied
	}

	filter := domain.AppointmentsFilter{
		DoctorID:         &req.DoctorID,
		From:             req.From,
		To:               req.To,
		IncludeCancelled: req.IncludeCancelled,
	}
	if req.Status != nil {
		status, err := toDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetDoctorAppointments: invalid status=%s", *req.Status)
			return nil, err
		}
		filter.Status = &status
	}

	return s.list(ctx, "GetDoctorAppointments", filter)
}

// UpdateStatus переводит запись в новый статус
//
// PENDING -> CONFIRMED (врач), CONFIRMED -> COMPLETED (врач),
// PENDING|CONFIRMED -> CANCELLED (пациент или врач). Администратор действует за любую сторону.
// Обновление выполняется как compare-and-set по текущему статусу: если запись
// параллельно сменила статус, возвращается ErrStatusConflict.
func (s *Service) UpdateStatus(ctx context.Context, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by user=%d (role=%s)",
		req.AppointmentID, req.Status, req.Actor.UserID, req.Actor.Role)

	newStatus, err := toDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, req.AppointmentID)
		return nil, err
	}
	if req.CancellationReason != nil && len(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellationReason is too long", ErrInvalidInput)
	}

	appointment, err := s.getAppointment(ctx, "UpdateStatus", req.AppointmentID)
	if err != nil {
		return nil, err
	}

	p, err := s.getParties(ctx, "UpdateStatus", appointment)
	if err != nil {
		return nil, err
	}

	actsAsDoctor := req.Actor.CanManageDoctor(p.doctor)
	actsAsPatient := req.Actor.IsAdmin() || req.Actor.IsPatient(p.patient)

	if !actsAsDoctor && !actsAsPatient {
		s.logger.Warn("UpdateStatus: user=%d is not a party of appointment id=%d", req.Actor.UserID, req.AppointmentID)
		return nil, ErrAccessDenied
	}

	from := appointment.Status
	if !from.CanTransitionTo(newStatus) {
		s.logger.Warn("UpdateStatus: illegal transition %s -> %s for appointment id=%d", from, newStatus, req.AppointmentID)
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, newStatus)
	}

	// Подтвердить и завершить приём может только врач
	if newStatus != domain.StatusCancelled && !actsAsDoctor {
		s.logger.Warn("UpdateStatus: user=%d cannot set status=%s for appointment id=%d",
			req.Actor.UserID, newStatus, req.AppointmentID)
		return nil, ErrAccessDenied
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var updated *domain.Appointment
	if newStatus == domain.StatusCancelled {
		updated, err = s.appointmentRepo.Cancel(ctx, req.AppointmentID, from, req.Actor.UserID, req.CancellationReason)
	} else {
		updated, err = s.appointmentRepo.UpdateStatus(ctx, req.AppointmentID, from, newStatus)
	}
	if err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrStatusChanged):
			s.logger.Warn("UpdateStatus: appointment id=%d changed status concurrently", req.AppointmentID)
			return nil, ErrStatusConflict
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			s.logger.Warn("UpdateStatus: appointment id=%d not found during update", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		default:
			s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", req.AppointmentID, err)
			return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrPersistence, err)
		}
	}

	if s.metrics != nil {
		s.metrics.IncStatusTransition(string(from), string(newStatus))
	}

	s.notifyOtherParties(updated, p, req.Actor)

	s.logger.Info("UpdateStatus: successfully moved appointment id=%d from %s to %s", req.AppointmentID, from, newStatus)
	return models.FromDomainAppointment(updated, s.location), nil
}

// Вспомогательные методы

// notifyOtherParties уведомляет участников, которые не инициировали изменение
func (s *Service) notifyOtherParties(a *domain.Appointment, p *parties, actor domain.Actor) {
	var batch []notifications.Notification
	if p.patient.UserID != actor.UserID {
		batch = append(batch, notifications.StatusChanged(a, p.patient.UserID, s.location))
	}
	if p.doctor.UserID != actor.UserID {
		batch = append(batch, notifications.StatusChanged(a, p.doctor.UserID, s.location))
	}
	s.dispatcher.Dispatch(batch...)
}

func (s *Service) list(ctx context.Context, op string, filter domain.AppointmentsFilter) (*models.AppointmentListResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	list, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("%s: repository error: %v", op, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrPersistence, op, err)
	}

	s.logger.Info("%s: successfully fetched %d appointments", op, len(list))
	return models.FromDomainAppointmentList(list, s.location), nil
}

func (s *Service) getAppointment(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrPersistence, op, err)
	}
	return appointment, nil
}

func (s *Service) getParties(ctx context.Context, op string, a *domain.Appointment) (*parties, error) {
	doctor, err := s.getDoctor(ctx, op, a.DoctorID)
	if err != nil {
		return nil, err
	}
	patient, err := s.getPatient(ctx, op, a.PatientID)
	if err != nil {
		return nil, err
	}
	return &parties{doctor: doctor, patient: patient}, nil
}

func (s *Service) getDoctor(ctx context.Context, op string, doctorID int64) (*domain.Doctor, error) {
	doctor, err := s.userClient.GetDoctor(ctx, doctorID)
	if err != nil {
		if errors.Is(err, userClient.ErrDoctorNotFound) {
			s.logger.Warn("%s: doctor id=%d not found", op, doctorID)
			return nil, ErrDoctorNotFound
		}
		s.logger.Error("%s: failed to get doctor id=%d: %v", op, doctorID, err)
		return nil, fmt.Errorf("%w: %s - failed to get doctor: %v", ErrInternal, op, err)
	}
	return doctor, nil
}

func (s *Service) getPatient(ctx context.Context, op string, patientID int64) (*domain.Patient, error) {
	patient, err := s.userClient.GetPatient(ctx, patientID)
	if err != nil {
		if errors.Is(err, userClient.ErrPatientNotFound) {
			s.logger.Warn("%s: patient id=%d not found", op, patientID)
			return nil, ErrPatientNotFound
		}
		s.logger.Error("%s: failed to get patient id=%d: %v", op, patientID, err)
		return nil, fmt.Errorf("%w: %s - failed to get patient: %v", ErrInternal, op, err)
	}
	return patient, nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

func toDomainStatus(status string) (domain.AppointmentStatus, error) {
	s, err := models.ToDomainStatus(strings.ToUpper(strings.TrimSpace(status)))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s, nil
}
