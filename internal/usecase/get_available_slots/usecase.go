package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	userClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
)

// retryBackoff пауза перед повтором чтения, умножается на номер попытки
const retryBackoff = 50 * time.Millisecond

// UseCase use case для получения доступных слотов врача на дату
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	userClient      UserServiceClient
	txManager       TransactionManager
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
	txManager TransactionManager,
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
	if policy.SlotStepMinutes <= 0 {
		policy.SlotStepMinutes = domain.DefaultSlotStepMinutes
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		userClient:      userClient,
		txManager:       txManager,
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

// Execute выполняет use case получения доступных слотов
// Только чтение: результат может устареть сразу после ответа,
// окончательная проверка выполняется при создании записи.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: doctor=%d, date=%s", req.DoctorID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.IncSlotQuery()
	}

	// 2. Проверяем, что врач существует и принимает
	doctor, err := uc.userClient.GetDoctor(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, userClient.ErrDoctorNotFound) {
			uc.logger.Warn("GetAvailableSlots: doctor id=%d not found", req.DoctorID)
			return nil, ErrDoctorNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get doctor id=%d: %v", req.DoctorID, err)
		return nil, fmt.Errorf("%w: failed to get doctor: %v", ErrInternal, err)
	}
	if !doctor.IsActive {
		uc.logger.Warn("GetAvailableSlots: doctor id=%d is inactive", req.DoctorID)
		return nil, ErrDoctorNotFound
	}

	loc := uc.policy.Location
	now := uc.timeProvider.Now().In(loc)
	day := startOfDay(req.Date, loc)
	today := startOfDay(now, loc)

	empty := &Response{Date: day, DoctorID: req.DoctorID, Slots: []Slot{}}

	// 3. Прошедшие дни и дни за горизонтом записи слотов не имеют
	if day.Before(today) {
		uc.logger.Info("GetAvailableSlots: date %s is in the past", day.Format(domain.DateFormat))
		return empty, nil
	}
	if isBeyondHorizon(day, today, uc.policy.AdvanceBookingDays) {
		uc.logger.Info("GetAvailableSlots: date %s is beyond the %d-day booking horizon",
			day.Format(domain.DateFormat), uc.policy.AdvanceBookingDays)
		return empty, nil
	}

	// 4. Читаем расписание и записи одним снимком, с повторами при сбоях хранилища
	entries, appointments, err := uc.readSnapshot(ctx, req.DoctorID, day)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		uc.logger.Info("GetAvailableSlots: doctor=%d has no availability on %s", req.DoctorID, day.Weekday())
		return empty, nil
	}

	// 5. Генерируем слоты
	slots := generateSlots(entries, appointments, day, now,
		uc.policy.AppointmentDurationMinutes, uc.policy.SlotStepMinutes)

	uc.logger.Info("GetAvailableSlots: generated %d slots for doctor=%d, date=%s",
		len(slots), req.DoctorID, day.Format(domain.DateFormat))

	return &Response{
		Date:     day,
		DoctorID: req.DoctorID,
		Slots:    slots,
	}, nil
}

// readSnapshot читает окна расписания на день недели и записи, пересекающиеся с днём
func (uc *UseCase) readSnapshot(ctx context.Context, doctorID int64, day time.Time) (
	[]*domain.ScheduleEntry, []*domain.Appointment, error,
) {
	// Окно последнего слота может заканчиваться после полуночи
	from := day
	to := day.AddDate(0, 0, 1).Add(time.Duration(uc.policy.AppointmentDurationMinutes) * time.Minute)

	var (
		entries      []*domain.ScheduleEntry
		appointments []*domain.Appointment
		lastErr      error
	)

	attempts := uc.policy.ReadRetries + 1
	for attempt := 1; ; attempt++ {
		lastErr = uc.readOnce(ctx, doctorID, day.Weekday(), from, to, &entries, &appointments)
		if lastErr == nil {
			return entries, appointments, nil
		}

		uc.logger.Warn("GetAvailableSlots: read attempt %d/%d failed for doctor=%d: %v",
			attempt, attempts, doctorID, lastErr)

		if attempt >= attempts || ctx.Err() != nil {
			break
		}

		select {
		case <-time.After(time.Duration(attempt) * retryBackoff):
		case <-ctx.Done():
		}
	}

	uc.logger.Error("GetAvailableSlots: failed to read schedule for doctor=%d: %v", doctorID, lastErr)
	return nil, nil, fmt.Errorf("%w: read schedule snapshot: %v", ErrPersistence, lastErr)
}

func (uc *UseCase) readOnce(
	ctx context.Context,
	doctorID int64,
	weekday time.Weekday,
	from, to time.Time,
	entries *[]*domain.ScheduleEntry,
	appointments *[]*domain.Appointment,
) error {
	if uc.policy.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.policy.QueryTimeout)
		defer cancel()
	}

	return uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		e, err := uc.scheduleRepo.GetAvailableByWeekday(txCtx, doctorID, weekday)
		if err != nil {
			return err
		}
		a, err := uc.appointmentRepo.GetOverlapping(txCtx, doctorID, from, to)
		if err != nil {
			return err
		}
		*entries = e
		*appointments = a
		return nil
	})
}
