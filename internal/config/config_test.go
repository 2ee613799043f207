package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
[database]
host = "db"
dbname = "appointments"

[user_service]
url = "http://users:8081"
`

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(minimalConfig)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 3*time.Second, cfg.Database.QueryTimeoutDuration())
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, RateLimitBackendMemory, cfg.RateLimit.Backend)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window())
	assert.Equal(t, 60, cfg.Booking.AppointmentDurationMinutes)
	assert.Equal(t, 30, cfg.Booking.SlotStepMinutes)
	assert.Equal(t, 0, cfg.Booking.AdvanceBookingDays)

	loc, err := cfg.Booking.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse(minimalConfig + `
[rate_limit]
enabled = true
backend = "postgres"
window_seconds = 10
mutation_max_requests = 3

[booking]
appointment_duration_minutes = 45
slot_step_minutes = 15
advance_booking_days = 14
timezone = "Europe/Moscow"
`)
	require.NoError(t, err)

	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, RateLimitBackendPostgres, cfg.RateLimit.Backend)
	assert.Equal(t, 10*time.Second, cfg.RateLimit.Window())
	assert.Equal(t, 3, cfg.RateLimit.MutationMaxRequests)
	assert.Equal(t, 120, cfg.RateLimit.QueryMaxRequests)
	assert.Equal(t, 45, cfg.Booking.AppointmentDurationMinutes)
	assert.Equal(t, 15, cfg.Booking.SlotStepMinutes)
	assert.Equal(t, 14, cfg.Booking.AdvanceBookingDays)
	assert.Equal(t, "Europe/Moscow", cfg.Booking.Timezone)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "missing database host",
			data: "[database]\ndbname = \"x\"\n[user_service]\nurl = \"http://u\"\n",
		},
		{
			name: "missing user service url",
			data: "[database]\nhost = \"db\"\ndbname = \"x\"\n",
		},
		{
			name: "notification service without url",
			data: minimalConfig + "[notification_service]\nenabled = true\n",
		},
		{
			name: "unknown rate limit backend",
			data: minimalConfig + "[rate_limit]\nbackend = \"redis\"\n",
		},
		{
			name: "negative advance days",
			data: minimalConfig + "[booking]\nadvance_booking_days = -1\n",
		},
		{
			name: "duration longer than a day",
			data: minimalConfig + "[booking]\nappointment_duration_minutes = 1441\n",
		},
		{
			name: "unknown timezone",
			data: minimalConfig + "[booking]\ntimezone = \"Mars/Olympus\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestParse_MalformedTOML(t *testing.T) {
	_, err := Parse("[database\nhost = ")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(minimalConfig), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "host=db port=5432 user= password= dbname=appointments sslmode=disable", cfg.Database.DSN())

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
