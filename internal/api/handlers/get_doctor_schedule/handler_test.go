package get_doctor_schedule

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	scheduleModels "github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type fakeService struct {
	err error
	got int64
}

func (f *fakeService) GetSchedule(_ context.Context, doctorID int64) (*scheduleModels.ScheduleResponse, error) {
	f.got = doctorID
	if f.err != nil {
		return nil, f.err
	}
	return &scheduleModels.ScheduleResponse{
		DoctorID: doctorID,
		Entries: []scheduleModels.EntryResponse{{
			ID:              1,
			Weekday:         1,
			StartTime:       types.MustParseClockTime("09:00"),
			EndTime:         types.MustParseClockTime("10:00"),
			IsAvailable:     true,
			MaxAppointments: 1,
		}},
	}, nil
}

func serve(svc ScheduleService, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/doctors/{doctorId}/schedule", NewHandler(svc, logger.Nop()).Handle)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "/api/v1/doctors/7/schedule")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), svc.got)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	entries := body["entries"].([]interface{})
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]interface{})
	assert.Equal(t, "09:00", entry["startTime"])
	assert.Equal(t, "10:00", entry["endTime"])
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		svcErr     error
		wantStatus int
		wantKind   string
	}{
		{name: "bad id", target: "/api/v1/doctors/abc/schedule", wantStatus: http.StatusBadRequest, wantKind: "VALIDATION"},
		{name: "unknown doctor", target: "/api/v1/doctors/7/schedule", svcErr: schedule.ErrDoctorNotFound, wantStatus: http.StatusNotFound, wantKind: "NOT_FOUND"},
		{name: "storage down", target: "/api/v1/doctors/7/schedule", svcErr: schedule.ErrPersistence, wantStatus: http.StatusServiceUnavailable, wantKind: "PERSISTENCE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.svcErr}, tt.target)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantKind, body["kind"])
		})
	}
}
