package appointments

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	userClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/internal/service/notifications"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type fakeAppointmentRepo struct {
	mu    sync.Mutex
	items map[int64]*domain.Appointment
	// beforeUpdate вызывается перед compare-and-set, имитирует параллельную запись
	beforeUpdate func(a *domain.Appointment)
}

func newFakeAppointmentRepo(items ...*domain.Appointment) *fakeAppointmentRepo {
	r := &fakeAppointmentRepo{items: make(map[int64]*domain.Appointment)}
	for _, a := range items {
		r.items[a.ID] = a
	}
	return r
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	c := *a
	return &c, nil
}

func (r *fakeAppointmentRepo) List(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Appointment, 0)
	for _, a := range r.items {
		if filter.DoctorID != nil && a.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.PatientID != nil && a.PatientID != *filter.PatientID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.Status == nil && !filter.IncludeCancelled && a.Status == domain.StatusCancelled {
			continue
		}
		c := *a
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) cas(id int64, from domain.AppointmentStatus, apply func(a *domain.Appointment)) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	if r.beforeUpdate != nil {
		r.beforeUpdate(a)
	}
	if a.Status != from {
		return nil, appointmentRepo.ErrStatusChanged
	}
	apply(a)
	c := *a
	return &c, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(_ context.Context, id int64, from, to domain.AppointmentStatus) (*domain.Appointment, error) {
	return r.cas(id, from, func(a *domain.Appointment) { a.Status = to })
}

func (r *fakeAppointmentRepo) Cancel(_ context.Context, id int64, from domain.AppointmentStatus, cancelledBy int64, reason *string) (*domain.Appointment, error) {
	return r.cas(id, from, func(a *domain.Appointment) {
		now := time.Now()
		a.Status = domain.StatusCancelled
		a.CancelledBy = &cancelledBy
		a.CancellationReason = reason
		a.CancelledAt = &now
	})
}

type fakeUsers struct{}

func (fakeUsers) GetDoctor(_ context.Context, id int64) (*domain.Doctor, error) {
	if id != 7 {
		return nil, userClient.ErrDoctorNotFound
	}
	return &domain.Doctor{ID: 7, UserID: 70, FullName: "Dr. House", IsActive: true}, nil
}

func (fakeUsers) GetPatient(_ context.Context, id int64) (*domain.Patient, error) {
	if id != 3 {
		return nil, userClient.ErrPatientNotFound
	}
	return &domain.Patient{ID: 3, UserID: 30, FullName: "John Doe"}, nil
}

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []notifications.Notification
}

func (d *fakeDispatcher) Dispatch(n ...notifications.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, n...)
}

var (
	doctorActor  = domain.Actor{UserID: 70, Role: domain.RoleDoctor}
	patientActor = domain.Actor{UserID: 30, Role: domain.RolePatient}
	adminActor   = domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	otherPatient = domain.Actor{UserID: 31, Role: domain.RolePatient}
	otherDoctor  = domain.Actor{UserID: 71, Role: domain.RoleDoctor}
)

func newAppointment(status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:              100,
		PatientID:       3,
		DoctorID:        7,
		ScheduledAt:     time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Status:          status,
		Type:            "consultation",
		BookedBy:        30,
	}
}

func newTestService(repo *fakeAppointmentRepo, d *fakeDispatcher) *Service {
	return NewService(repo, fakeUsers{}, d, nil, time.UTC, time.Second, logger.Nop())
}

func TestService_UpdateStatus_StateMachine(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.AppointmentStatus
		to      string
		actor   domain.Actor
		wantErr error
	}{
		{name: "doctor confirms pending", from: domain.StatusPending, to: "CONFIRMED", actor: doctorActor},
		{name: "doctor completes confirmed", from: domain.StatusConfirmed, to: "COMPLETED", actor: doctorActor},
		{name: "patient cancels pending", from: domain.StatusPending, to: "CANCELLED", actor: patientActor},
		{name: "patient cancels confirmed", from: domain.StatusConfirmed, to: "CANCELLED", actor: patientActor},
		{name: "doctor cancels confirmed", from: domain.StatusConfirmed, to: "CANCELLED", actor: doctorActor},
		{name: "admin confirms", from: domain.StatusPending, to: "CONFIRMED", actor: adminActor},
		{name: "lowercase status accepted", from: domain.StatusPending, to: "confirmed", actor: doctorActor},

		{name: "patient cannot confirm", from: domain.StatusPending, to: "CONFIRMED", actor: patientActor, wantErr: domain.ErrPermission},
		{name: "patient cannot complete", from: domain.StatusConfirmed, to: "COMPLETED", actor: patientActor, wantErr: domain.ErrPermission},
		{name: "stranger patient", from: domain.StatusPending, to: "CANCELLED", actor: otherPatient, wantErr: domain.ErrPermission},
		{name: "stranger doctor", from: domain.StatusPending, to: "CONFIRMED", actor: otherDoctor, wantErr: domain.ErrPermission},

		{name: "pending to completed", from: domain.StatusPending, to: "COMPLETED", actor: doctorActor, wantErr: domain.ErrValidation},
		{name: "completed is terminal", from: domain.StatusCompleted, to: "CANCELLED", actor: doctorActor, wantErr: domain.ErrValidation},
		{name: "cancelled is terminal", from: domain.StatusCancelled, to: "CONFIRMED", actor: doctorActor, wantErr: domain.ErrValidation},
		{name: "same status", from: domain.StatusConfirmed, to: "CONFIRMED", actor: doctorActor, wantErr: domain.ErrValidation},
		{name: "unknown status", from: domain.StatusPending, to: "DONE", actor: doctorActor, wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeAppointmentRepo(newAppointment(tt.from))
			svc := newTestService(repo, &fakeDispatcher{})

			res, err := svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
				Actor:         tt.actor,
				AppointmentID: 100,
				Status:        tt.to,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, repo.items[100].Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, string(repo.items[100].Status), res.Status)
		})
	}
}

func TestService_UpdateStatus_CancelRecordsReasonAndNotifies(t *testing.T) {
	repo := newFakeAppointmentRepo(newAppointment(domain.StatusConfirmed))
	d := &fakeDispatcher{}
	svc := newTestService(repo, d)

	res, err := svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
		Actor:              patientActor,
		AppointmentID:      100,
		Status:             "CANCELLED",
		CancellationReason: ptr.Ptr("заболел"),
	})
	require.NoError(t, err)

	assert.Equal(t, "CANCELLED", res.Status)
	require.NotNil(t, res.CancelledBy)
	assert.Equal(t, int64(30), *res.CancelledBy)
	assert.Equal(t, "заболел", *res.CancellationReason)
	assert.NotNil(t, res.CancelledAt)

	// Уведомляется только врач
	require.Len(t, d.sent, 1)
	assert.Equal(t, int64(70), d.sent[0].UserID)
	assert.Equal(t, notifications.TypeAppointmentCancelled, d.sent[0].Type)
}

func TestService_UpdateStatus_AdminNotifiesBothParties(t *testing.T) {
	repo := newFakeAppointmentRepo(newAppointment(domain.StatusPending))
	d := &fakeDispatcher{}
	svc := newTestService(repo, d)

	_, err := svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
		Actor: adminActor, AppointmentID: 100, Status: "CONFIRMED",
	})
	require.NoError(t, err)
	assert.Len(t, d.sent, 2)
}

func TestService_UpdateStatus_ConcurrentChangeIsConflict(t *testing.T) {
	repo := newFakeAppointmentRepo(newAppointment(domain.StatusPending))
	repo.beforeUpdate = func(a *domain.Appointment) {
		a.Status = domain.StatusCancelled
	}
	d := &fakeDispatcher{}
	svc := newTestService(repo, d)

	_, err := svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
		Actor: doctorActor, AppointmentID: 100, Status: "CONFIRMED",
	})
	assert.ErrorIs(t, err, ErrStatusConflict)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Empty(t, d.sent)
}

func TestService_UpdateStatus_NotFound(t *testing.T) {
	svc := newTestService(newFakeAppointmentRepo(), &fakeDispatcher{})

	_, err := svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
		Actor: doctorActor, AppointmentID: 1, Status: "CONFIRMED",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_GetByID_Access(t *testing.T) {
	repo := newFakeAppointmentRepo(newAppointment(domain.StatusPending))
	svc := newTestService(repo, &fakeDispatcher{})
	ctx := context.Background()

	for _, actor := range []domain.Actor{doctorActor, patientActor, adminActor} {
		res, err := svc.GetByID(ctx, actor, 100)
		require.NoError(t, err)
		assert.Equal(t, "2026-10-19T09:00:00Z", res.ScheduledAt)
		assert.Equal(t, "2026-10-19T10:00:00Z", res.EndsAt)
	}

	for _, actor := range []domain.Actor{otherDoctor, otherPatient} {
		_, err := svc.GetByID(ctx, actor, 100)
		assert.ErrorIs(t, err, domain.ErrPermission)
	}
}

func TestService_GetPatientAppointments(t *testing.T) {
	cancelled := newAppointment(domain.StatusCancelled)
	cancelled.ID = 101
	repo := newFakeAppointmentRepo(newAppointment(domain.StatusPending), cancelled)
	svc := newTestService(repo, &fakeDispatcher{})
	ctx := context.Background()

	all, err := svc.GetPatientAppointments(ctx, &models.GetPatientAppointmentsRequest{Actor: patientActor, PatientID: 3})
	require.NoError(t, err)
	assert.Len(t, all.Appointments, 2)

	onlyCancelled, err := svc.GetPatientAppointments(ctx, &models.GetPatientAppointmentsRequest{
		Actor: patientActor, PatientID: 3, Status: ptr.Ptr("CANCELLED"),
	})
	require.NoError(t, err)
	require.Len(t, onlyCancelled.Appointments, 1)
	assert.Equal(t, int64(101), onlyCancelled.Appointments[0].ID)

	_, err = svc.GetPatientAppointments(ctx, &models.GetPatientAppointmentsRequest{Actor: otherPatient, PatientID: 3})
	assert.ErrorIs(t, err, domain.ErrPermission)

	_, err = svc.GetPatientAppointments(ctx, &models.GetPatientAppointmentsRequest{Actor: adminActor, PatientID: 4})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_GetDoctorAppointments(t *testing.T) {
	cancelled := newAppointment(domain.StatusCancelled)
	cancelled.ID = 101
	repo := newFakeAppointmentRepo(newAppointment(domain.StatusPending), cancelled)
	svc := newTestService(repo, &fakeDispatcher{})
	ctx := context.Background()

	active, err := svc.GetDoctorAppointments(ctx, &models.GetDoctorAppointmentsRequest{Actor: doctorActor, DoctorID: 7})
	require.NoError(t, err)
	assert.Len(t, active.Appointments, 1)

	withCancelled, err := svc.GetDoctorAppointments(ctx, &models.GetDoctorAppointmentsRequest{
		Actor: doctorActor, DoctorID: 7, IncludeCancelled: true,
	})
	require.NoError(t, err)
	assert.Len(t, withCancelled.Appointments, 2)

	_, err = svc.GetDoctorAppointments(ctx, &models.GetDoctorAppointmentsRequest{Actor: patientActor, DoctorID: 7})
	assert.ErrorIs(t, err, domain.ErrPermission)

	from := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)
	_, err = svc.GetDoctorAppointments(ctx, &models.GetDoctorAppointmentsRequest{
		Actor: doctorActor, DoctorID: 7, From: &from, To: &to,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
