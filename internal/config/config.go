package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig возвращается, когда конфигурация не проходит валидацию
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server              ServerConfig              `toml:"server"`
	Database            DatabaseConfig            `toml:"database"`
	Logs                LogsConfig                `toml:"logs"`
	Metrics             MetricsConfig             `toml:"metrics"`
	UserService         UserServiceConfig         `toml:"user_service"`
	NotificationService NotificationServiceConfig `toml:"notification_service"`
	RateLimit           RateLimitConfig           `toml:"rate_limit"`
	Booking             BookingConfig             `toml:"booking"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	QueryTimeout    int    `toml:"query_timeout"`     // миллисекунды, таймаут операций с БД на запрос
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// QueryTimeoutDuration таймаут операций с БД
func (c DatabaseConfig) QueryTimeoutDuration() time.Duration {
	return time.Duration(c.QueryTimeout) * time.Millisecond
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// UserServiceConfig справочник врачей и пациентов
type UserServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// NotificationServiceConfig сервис уведомлений
type NotificationServiceConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// RateLimitConfig настройки лимитера
// backend: memory - счетчики в памяти процесса, postgres - общие для всех экземпляров
type RateLimitConfig struct {
	Enabled             bool   `toml:"enabled"`
	Backend             string `toml:"backend"`
	WindowSeconds       int    `toml:"window_seconds"`
	QueryMaxRequests    int    `toml:"query_max_requests"`
	MutationMaxRequests int    `toml:"mutation_max_requests"`
}

// Window длительность окна
func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// BookingConfig политика записи
type BookingConfig struct {
	AppointmentDurationMinutes int    `toml:"appointment_duration_minutes"`
	SlotStepMinutes            int    `toml:"slot_step_minutes"`
	AdvanceBookingDays         int    `toml:"advance_booking_days"` // 0 = без ограничения
	Timezone                   string `toml:"timezone"`
	ReadRetries                int    `toml:"read_retries"`
}

// Location часовой пояс клиники
func (c BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

const (
	RateLimitBackendMemory   = "memory"
	RateLimitBackendPostgres = "postgres"
)

// Load читает конфигурацию из TOML файла, подставляет значения по умолчанию и валидирует её
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Parse разбирает конфигурацию из строки (для тестов)
func Parse(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 10)
	setDefault(&c.Server.WriteTimeout, 10)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 15)

	setDefault(&c.Database.Port, 5432)
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)
	setDefault(&c.Database.QueryTimeout, 3000)
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "smc_appointment_service"
	}

	setDefault(&c.UserService.Timeout, 5)
	setDefault(&c.NotificationService.Timeout, 5)

	if c.RateLimit.Backend == "" {
		c.RateLimit.Backend = RateLimitBackendMemory
	}
	setDefault(&c.RateLimit.WindowSeconds, 60)
	setDefault(&c.RateLimit.QueryMaxRequests, 120)
	setDefault(&c.RateLimit.MutationMaxRequests, 20)

	setDefault(&c.Booking.AppointmentDurationMinutes, 60)
	setDefault(&c.Booking.SlotStepMinutes, 30)
	setDefault(&c.Booking.ReadRetries, 2)
	if c.Booking.Timezone == "" {
		c.Booking.Timezone = "UTC"
	}
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("%w: database.host is required", ErrInvalidConfig)
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	}
	if c.UserService.URL == "" {
		return fmt.Errorf("%w: user_service.url is required", ErrInvalidConfig)
	}
	if c.NotificationService.Enabled && c.NotificationService.URL == "" {
		return fmt.Errorf("%w: notification_service.url is required when enabled", ErrInvalidConfig)
	}
	if c.RateLimit.Backend != RateLimitBackendMemory && c.RateLimit.Backend != RateLimitBackendPostgres {
		return fmt.Errorf("%w: rate_limit.backend must be %q or %q", ErrInvalidConfig,
			RateLimitBackendMemory, RateLimitBackendPostgres)
	}
	if c.Booking.AppointmentDurationMinutes <= 0 || c.Booking.AppointmentDurationMinutes > 24*60 {
		return fmt.Errorf("%w: booking.appointment_duration_minutes out of range", ErrInvalidConfig)
	}
	if c.Booking.SlotStepMinutes <= 0 || c.Booking.SlotStepMinutes > 24*60 {
		return fmt.Errorf("%w: booking.slot_step_minutes out of range", ErrInvalidConfig)
	}
	if c.Booking.AdvanceBookingDays < 0 {
		return fmt.Errorf("%w: booking.advance_booking_days must not be negative", ErrInvalidConfig)
	}
	if c.Booking.ReadRetries < 0 {
		return fmt.Errorf("%w: booking.read_retries must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}
	return nil
}

func setDefault(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}
