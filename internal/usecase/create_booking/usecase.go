package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	userClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/notifications"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Исходы бронирования для метрик
const (
	OutcomeCreated  = "created"
	OutcomeConflict = "conflict"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// UseCase use case для создания записи на приём
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	userClient      UserServiceClient
	locker          DoctorLocker
	txManager       TransactionManager
	dispatcher      NotificationDispatcher
	metrics         MetricsCollector
	policy          Policy
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
// metrics может быть nil
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	userClient UserServiceClient,
	locker DoctorLocker,
	txManager TransactionManager,
	dispatcher NotificationDispatcher,
	metrics MetricsCollector,
	policy Policy,
	logger Logger,
) *UseCase {
	if policy.Location == nil {
		policy.Location = time.UTC
	}
	if policy.AppointmentDurationMinutes <= 0 {
		policy.AppointmentDurationMinutes = domain.DefaultAppointmentDurationMinutes
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		userClient:      userClient,
		locker:          locker,
		txManager:       txManager,
		dispatcher:      dispatcher,
		metrics:         metrics,
		policy:          policy,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания записи
// Проверка занятости и вставка выполняются под блокировкой календаря врача
// в сериализуемой транзакции. Повторов нет: при гонке клиент получает конфликт.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d (role=%s), doctor=%d, at=%s",
		req.Actor.UserID, req.Actor.Role, req.DoctorID, req.RequestedAt.Format(time.RFC3339))

	created, doctor, patient, err := uc.book(ctx, req)
	uc.observe(err)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created appointment id=%d for patient=%d, doctor=%d",
		created.ID, created.PatientID, created.DoctorID)

	uc.dispatcher.Dispatch(notifications.Booked(created, doctor, patient, uc.policy.Location)...)

	return fromDomain(created), nil
}

func (uc *UseCase) book(ctx context.Context, req *Request) (*domain.Appointment, *domain.Doctor, *domain.Patient, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, nil, nil, err
	}

	// 2. Врач должен существовать и принимать
	doctor, err := uc.getDoctor(ctx, req.DoctorID)
	if err != nil {
		return nil, nil, nil, err
	}

	// 3. Пациент: явно указанный или сам пользователь-пациент
	patient, err := uc.resolvePatient(ctx, req)
	if err != nil {
		return nil, nil, nil, err
	}

	// 4. Права проверяются один раз, дальше действуем от имени пациента
	if err := authorize(req.Actor, doctor, patient); err != nil {
		uc.logger.Warn("CreateBooking: user=%d (role=%s) cannot book patient=%d with doctor=%d",
			req.Actor.UserID, req.Actor.Role, patient.ID, doctor.ID)
		return nil, nil, nil, err
	}

	// 5. Время записи
	loc := uc.policy.Location
	requestedAt := req.RequestedAt.In(loc).Truncate(time.Minute)
	now := uc.timeProvider.Now().In(loc)
	if err := validateTime(requestedAt, now, uc.policy.AdvanceBookingDays); err != nil {
		uc.logger.Warn("CreateBooking: time validation failed: %v", err)
		return nil, nil, nil, err
	}

	// 6. Проверка и вставка под блокировкой врача
	if uc.policy.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.policy.QueryTimeout)
		defer cancel()
	}

	unlock, err := uc.locker.Lock(ctx, doctor.ID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to lock doctor=%d: %v", doctor.ID, err)
		return nil, nil, nil, fmt.Errorf("%w: lock doctor: %v", ErrPersistence, err)
	}
	defer unlock()

	var created *domain.Appointment
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		a, err := uc.insert(txCtx, req, doctor, patient, requestedAt)
		if err != nil {
			return err
		}
		created = a
		return nil
	})
	if err != nil {
		return nil, nil, nil, uc.classify(doctor.ID, err)
	}

	return created, doctor, patient, nil
}

// insert выполняется внутри транзакции
func (uc *UseCase) insert(
	ctx context.Context,
	req *Request,
	doctor *domain.Doctor,
	patient *domain.Patient,
	requestedAt time.Time,
) (*domain.Appointment, error) {
	// Межпроцессная блокировка календаря, та же, что при замене расписания
	if err := uc.scheduleRepo.LockDoctor(ctx, doctor.ID); err != nil {
		return nil, err
	}

	entries, err := uc.scheduleRepo.GetAvailableByWeekday(ctx, doctor.ID, requestedAt.Weekday())
	if err != nil {
		return nil, err
	}

	entry := findEntry(entries, types.ClockTimeOf(requestedAt))
	if entry == nil {
		uc.logger.Warn("CreateBooking: doctor=%d has no availability at %s %s",
			doctor.ID, requestedAt.Weekday(), types.ClockTimeOf(requestedAt))
		return nil, ErrDoctorNotAvailable
	}

	duration := time.Duration(uc.policy.AppointmentDurationMinutes) * time.Minute
	overlapping, err := uc.appointmentRepo.LockOverlapping(ctx, doctor.ID, requestedAt, requestedAt.Add(duration))
	if err != nil {
		return nil, err
	}

	taken := domain.CountOverlapping(overlapping, requestedAt, requestedAt.Add(duration))
	if taken >= entry.MaxAppointments {
		uc.logger.Warn("CreateBooking: slot not available for doctor=%d at %s, %d/%d spots taken",
			doctor.ID, requestedAt.Format(time.RFC3339), taken, entry.MaxAppointments)
		return nil, ErrSlotNotAvailable
	}

	uc.logger.Info("CreateBooking: slot available, %d/%d spots taken", taken, entry.MaxAppointments)

	return uc.appointmentRepo.Create(ctx, &domain.Appointment{
		PatientID:       patient.ID,
		DoctorID:        doctor.ID,
		ScheduledAt:     requestedAt,
		DurationMinutes: uc.policy.AppointmentDurationMinutes,
		Status:          domain.StatusPending,
		Type:            strings.TrimSpace(req.Type),
		Symptoms:        req.Symptoms,
		BookedBy:        req.Actor.UserID,
	})
}

// classify переводит ошибку транзакции в ошибку usecase
func (uc *UseCase) classify(doctorID int64, err error) error {
	switch {
	case errors.Is(err, ErrDoctorNotAvailable), errors.Is(err, ErrSlotNotAvailable):
		return err
	case isSerializationFailure(err):
		uc.logger.Warn("CreateBooking: concurrent booking for doctor=%d won: %v", doctorID, err)
		return fmt.Errorf("%w: concurrent booking", ErrSlotNotAvailable)
	default:
		uc.logger.Error("CreateBooking: transaction failed for doctor=%d: %v", doctorID, err)
		return fmt.Errorf("%w: transaction: %v", ErrPersistence, err)
	}
}

func (uc *UseCase) getDoctor(ctx context.Context, doctorID int64) (*domain.Doctor, error) {
	doctor, err := uc.userClient.GetDoctor(ctx, doctorID)
	if err != nil {
		if errors.Is(err, userClient.ErrDoctorNotFound) {
			uc.logger.Warn("CreateBooking: doctor id=%d not found", doctorID)
			return nil, ErrDoctorNotFound
		}
		uc.logger.Error("CreateBooking: failed to get doctor id=%d: %v", doctorID, err)
		return nil, fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}
	if !doctor.IsActive {
		uc.logger.Warn("CreateBooking: doctor id=%d is inactive", doctorID)
		return nil, ErrDoctorNotFound
	}
	return doctor, nil
}

func (uc *UseCase) resolvePatient(ctx context.Context, req *Request) (*domain.Patient, error) {
	var (
		patient *domain.Patient
		err     error
	)

	switch {
	case req.PatientID != nil:
		patient, err = uc.userClient.GetPatient(ctx, *req.PatientID)
	case req.Actor.Role == domain.RolePatient:
		patient, err = uc.userClient.GetPatientByUserID(ctx, req.Actor.UserID)
	default:
		return nil, fmt.Errorf("%w: patientID is required", ErrInvalidInput)
	}

	if err != nil {
		if errors.Is(err, userClient.ErrPatientNotFound) {
			uc.logger.Warn("CreateBooking: patient not found for user=%d: %v", req.Actor.UserID, err)
			return nil, ErrPatientNotFound
		}
		uc.logger.Error("CreateBooking: failed to get patient: %v", err)
		return nil, fmt.Errorf("%w: failed to get patient: %v", ErrInternal, err)
	}
	return patient, nil
}

func (uc *UseCase) observe(err error) {
	if uc.metrics == nil {
		return
	}
	switch {
	case err == nil:
		uc.metrics.IncBooking(OutcomeCreated)
	case errors.Is(err, domain.ErrConflict):
		uc.metrics.IncBooking(OutcomeConflict)
	case errors.Is(err, domain.ErrPersistence), domain.KindOf(err) == domain.KindInternal:
		uc.metrics.IncBooking(OutcomeFailed)
	default:
		uc.metrics.IncBooking(OutcomeRejected)
	}
}
