package get_patient_appointments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	appointmentModels "github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type fakeService struct {
	err error
	got *appointmentModels.GetPatientAppointmentsRequest
}

func (f *fakeService) GetPatientAppointments(_ context.Context, req *appointmentModels.GetPatientAppointmentsRequest) (*appointmentModels.AppointmentListResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &appointmentModels.AppointmentListResponse{Appointments: []appointmentModels.AppointmentResponse{}}, nil
}

func serve(svc AppointmentService, target string, actor *domain.Actor) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/patients/{patientId}/appointments", NewHandler(svc, logger.Nop()).Handle)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if actor != nil {
		req = req.WithContext(middleware.WithActor(req.Context(), *actor))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_PassesFilter(t *testing.T) {
	svc := &fakeService{}
	actor := domain.Actor{UserID: 30, Role: domain.RolePatient}

	rec := serve(svc, "/api/v1/patients/3/appointments?status=PENDING", &actor)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, int64(3), svc.got.PatientID)
	assert.Equal(t, actor, svc.got.Actor)
	require.NotNil(t, svc.got.Status)
	assert.Equal(t, "PENDING", *svc.got.Status)
}

func TestHandle_Errors(t *testing.T) {
	actor := &domain.Actor{UserID: 30, Role: domain.RolePatient}

	tests := []struct {
		name       string
		target     string
		actor      *domain.Actor
		svcErr     error
		wantStatus int
	}{
		{name: "bad id", target: "/api/v1/patients/x/appointments", actor: actor, wantStatus: http.StatusBadRequest},
		{name: "no actor", target: "/api/v1/patients/3/appointments", wantStatus: http.StatusUnauthorized},
		{name: "forbidden", target: "/api/v1/patients/3/appointments", actor: actor, svcErr: appointments.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "unknown patient", target: "/api/v1/patients/3/appointments", actor: actor, svcErr: appointments.ErrPatientNotFound, wantStatus: http.StatusNotFound},
		{name: "bad status", target: "/api/v1/patients/3/appointments?status=LOST", actor: actor, svcErr: appointments.ErrInvalidStatus, wantStatus: http.StatusBadRequest},
		{name: "storage down", target: "/api/v1/patients/3/appointments", actor: actor, svcErr: appointments.ErrPersistence, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.svcErr}, tt.target, tt.actor)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
