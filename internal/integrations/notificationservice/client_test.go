package notificationservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

func TestClient_Push(t *testing.T) {
	var got PushRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/internal/notifications", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, logger.Nop())
	err := c.Push(context.Background(), 42, "APPOINTMENT_BOOKED", "title", "message")
	require.NoError(t, err)

	assert.Equal(t, PushRequest{UserID: 42, Type: "APPOINTMENT_BOOKED", Title: "title", Message: "message"}, got)
}

func TestClient_Push_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, logger.Nop())
	err := c.Push(context.Background(), 1, "t", "title", "message")
	assert.ErrorIs(t, err, ErrRejected)
}
