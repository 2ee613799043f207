package update_appointment_status

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	appointmentModels "github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type fakeService struct {
	updateStatus func(ctx context.Context, req *appointmentModels.UpdateStatusRequest) (*appointmentModels.AppointmentResponse, error)
}

func (f *fakeService) UpdateStatus(ctx context.Context, req *appointmentModels.UpdateStatusRequest) (*appointmentModels.AppointmentResponse, error) {
	return f.updateStatus(ctx, req)
}

var doctor = domain.Actor{UserID: 70, Role: domain.RoleDoctor}

func serve(svc AppointmentService, target, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/appointments/{appointmentId}/status", NewHandler(svc, logger.Nop()).Handle)

	req := httptest.NewRequest(http.MethodPatch, target, strings.NewReader(body))
	req = req.WithContext(middleware.WithActor(req.Context(), doctor))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := &fakeService{updateStatus: func(_ context.Context, req *appointmentModels.UpdateStatusRequest) (*appointmentModels.AppointmentResponse, error) {
		assert.Equal(t, doctor, req.Actor)
		assert.Equal(t, int64(5), req.AppointmentID)
		assert.Equal(t, "CANCELLED", req.Status)
		require.NotNil(t, req.CancellationReason)
		return &appointmentModels.AppointmentResponse{ID: 5, Status: "CANCELLED", CancellationReason: req.CancellationReason}, nil
	}}

	rec := serve(svc, "/api/v1/appointments/5/status", `{"status":"CANCELLED","cancellationReason":"болезнь врача"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp appointmentModels.AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "CANCELLED", resp.Status)
	assert.Equal(t, "болезнь врача", *resp.CancellationReason)
}

func TestHandle_BodyWithAppointmentID(t *testing.T) {
	svc := &fakeService{updateStatus: func(_ context.Context, req *appointmentModels.UpdateStatusRequest) (*appointmentModels.AppointmentResponse, error) {
		assert.Equal(t, int64(5), req.AppointmentID)
		assert.Equal(t, "CONFIRMED", req.Status)
		return &appointmentModels.AppointmentResponse{ID: 5, Status: "CONFIRMED"}, nil
	}}

	rec := serve(svc, "/api/v1/appointments/5/status", `{"appointmentId":5,"status":"CONFIRMED"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp appointmentModels.AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "CONFIRMED", resp.Status)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		body       string
		svcErr     error
		wantStatus int
		wantKind   domain.ErrorKind
	}{
		{name: "bad id", target: "/api/v1/appointments/x/status", body: `{"status":"CONFIRMED"}`,
			wantStatus: http.StatusBadRequest, wantKind: domain.KindValidation},
		{name: "bad body", target: "/api/v1/appointments/5/status", body: `[]`,
			wantStatus: http.StatusBadRequest, wantKind: domain.KindValidation},
		{name: "not found", target: "/api/v1/appointments/5/status", body: `{"status":"CONFIRMED"}`,
			svcErr: appointments.ErrAppointmentNotFound, wantStatus: http.StatusNotFound, wantKind: domain.KindNotFound},
		{name: "wrong actor", target: "/api/v1/appointments/5/status", body: `{"status":"CONFIRMED"}`,
			svcErr: appointments.ErrAccessDenied, wantStatus: http.StatusForbidden, wantKind: domain.KindPermission},
		{name: "illegal transition", target: "/api/v1/appointments/5/status", body: `{"status":"PENDING"}`,
			svcErr: appointments.ErrIllegalTransition, wantStatus: http.StatusBadRequest, wantKind: domain.KindValidation},
		{name: "body id differs from path", target: "/api/v1/appointments/5/status", body: `{"appointmentId":6,"status":"CONFIRMED"}`,
			wantStatus: http.StatusBadRequest, wantKind: domain.KindValidation},
		{name: "lost race", target: "/api/v1/appointments/5/status", body: `{"status":"CONFIRMED"}`,
			svcErr: appointments.ErrStatusConflict, wantStatus: http.StatusConflict, wantKind: domain.KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{updateStatus: func(context.Context, *appointmentModels.UpdateStatusRequest) (*appointmentModels.AppointmentResponse, error) {
				return nil, tt.svcErr
			}}

			rec := serve(svc, tt.target, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantKind, body.Kind)
		})
	}
}
