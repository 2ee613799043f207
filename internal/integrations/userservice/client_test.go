package userservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/internal/doctors/7", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":7,"user_id":70,"full_name":"Dr. House","is_active":true}`))
	})
	mux.HandleFunc("/internal/patients/3", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":3,"user_id":30,"full_name":"John Doe"}`))
	})
	mux.HandleFunc("/internal/users/30/patient", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":3,"user_id":30,"full_name":"John Doe"}`))
	})
	mux.HandleFunc("/internal/doctors/500", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`boom`))
	})
	mux.HandleFunc("/internal/doctors/8", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_GetDoctor(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, time.Second, logger.Nop())

	doctor, err := c.GetDoctor(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), doctor.ID)
	assert.Equal(t, int64(70), doctor.UserID)
	assert.Equal(t, "Dr. House", doctor.FullName)
	assert.True(t, doctor.IsActive)
}

func TestClient_GetDoctor_Errors(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, time.Second, logger.Nop())

	tests := []struct {
		name     string
		doctorID int64
		wantErr  error
	}{
		{name: "not found", doctorID: 404, wantErr: ErrDoctorNotFound},
		{name: "server error", doctorID: 500, wantErr: ErrInvalidResponse},
		{name: "broken body", doctorID: 8, wantErr: ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.GetDoctor(context.Background(), tt.doctorID)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_GetPatient(t *testing.T) {
	srv := newTestServer(t)
	c := NewClient(srv.URL, time.Second, logger.Nop())

	patient, err := c.GetPatient(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(30), patient.UserID)

	byUser, err := c.GetPatientByUserID(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, int64(3), byUser.ID)

	_, err = c.GetPatient(context.Background(), 4)
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestClient_Unreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 100*time.Millisecond, logger.Nop())

	_, err := c.GetDoctor(context.Background(), 7)
	assert.ErrorIs(t, err, ErrInternal)
}
