package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	userClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

// Service сервис недельного расписания врачей
type Service struct {
	scheduleRepo ScheduleRepository
	userClient   UserServiceClient
	locker       DoctorLocker
	txManager    TransactionManager
	queryTimeout time.Duration
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	scheduleRepo ScheduleRepository,
	userClient UserServiceClient,
	locker DoctorLocker,
	txManager TransactionManager,
	queryTimeout time.Duration,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		userClient:   userClient,
		locker:       locker,
		txManager:    txManager,
		queryTimeout: queryTimeout,
		logger:       logger,
	}
}

// GetSchedule возвращает расписание врача, отсортированное по (weekday, startTime)
// Публичный метод - доступен всем
func (s *Service) GetSchedule(ctx context.Context, doctorID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: fetching schedule for doctor=%d", doctorID)

	if _, err := s.getDoctor(ctx, "GetSchedule", doctorID); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	entries, err := s.scheduleRepo.GetByDoctor(ctx, doctorID)
	if err != nil {
		s.logger.Error("GetSchedule: repository error for doctor=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrPersistence, err)
	}

	s.logger.Info("GetSchedule: successfully fetched %d entries for doctor=%d", len(entries), doctorID)
	return models.FromDomainSchedule(doctorID, sortedEntries(entries)), nil
}

// ReplaceSchedule полностью заменяет расписание врача
// Доступно самому врачу и администратору.
// Удаление и вставка выполняются в одной транзакции под блокировкой календаря врача,
// поэтому параллельная запись на приём не увидит наполовину заменённое расписание.
func (s *Service) ReplaceSchedule(ctx context.Context, req *models.ReplaceScheduleRequest) (*models.ReplaceScheduleResponse, error) {
	s.logger.Info("ReplaceSchedule: replacing schedule for doctor=%d with %d entries by user=%d (role=%s)",
		req.DoctorID, len(req.Entries), req.Actor.UserID, req.Actor.Role)

	entries := req.ToDomainEntries()
	if err := validateEntries(entries); err != nil {
		s.logger.Warn("ReplaceSchedule: validation failed for doctor=%d: %v", req.DoctorID, err)
		return nil, err
	}

	doctor, err := s.getDoctor(ctx, "ReplaceSchedule", req.DoctorID)
	if err != nil {
		return nil, err
	}

	if !req.Actor.CanManageDoctor(doctor) {
		s.logger.Warn("ReplaceSchedule: user=%d (role=%s) cannot manage doctor=%d",
			req.Actor.UserID, req.Actor.Role, req.DoctorID)
		return nil, ErrAccessDenied
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	unlock, err := s.locker.Lock(ctx, req.DoctorID)
	if err != nil {
		s.logger.Error("ReplaceSchedule: failed to lock doctor=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: ReplaceSchedule - lock doctor: %v", ErrPersistence, err)
	}
	defer unlock()

	var written int
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.scheduleRepo.LockDoctor(txCtx, req.DoctorID); err != nil {
			return err
		}
		n, err := s.scheduleRepo.ReplaceForDoctor(txCtx, req.DoctorID, entries)
		if err != nil {
			return err
		}
		written = n
		return nil
	})
	if err != nil {
		s.logger.Error("ReplaceSchedule: failed to replace schedule for doctor=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: ReplaceSchedule - transaction: %v", ErrPersistence, err)
	}

	s.logger.Info("ReplaceSchedule: successfully wrote %d entries for doctor=%d", written, req.DoctorID)
	return &models.ReplaceScheduleResponse{
		DoctorID:       req.DoctorID,
		EntriesWritten: written,
	}, nil
}

// Вспомогательные методы

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

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}
