package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	createAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getDoctorAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_doctor_appointments"
	getDoctorScheduleHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_doctor_schedule"
	getPatientAppointmentsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_patient_appointments"
	replaceDoctorScheduleHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/replace_doctor_schedule"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_appointment_status"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	rateLimitRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/ratelimit"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	notificationServiceClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/notificationservice"
	userServiceClient "github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
	appointmentsService "github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/notifications"
	scheduleService "github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	createBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/keylock"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/ratelimit"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Failed to load timezone %q: %v", cfg.Booking.Timezone, err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без метрик обёртка работает как обычный *sql.DB
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)
	queryTimeout := cfg.Database.QueryTimeoutDuration()

	// Инициализируем интеграционных клиентов
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (UserService=%s timeout=%ds)",
		cfg.UserService.URL, cfg.UserService.Timeout)

	// Уведомления: сервис уведомлений или только журнал
	var sink notifications.Sink
	if cfg.NotificationService.Enabled {
		sink = notificationServiceClient.NewClient(
			cfg.NotificationService.URL,
			time.Duration(cfg.NotificationService.Timeout)*time.Second,
			log,
		)
		log.Info("Notifications are sent to %s", cfg.NotificationService.URL)
	} else {
		sink = notifications.NewLogSink(log)
		log.Info("Notification service disabled, notifications are only logged")
	}
	dispatcher := notifications.NewDispatcher(
		sink,
		time.Duration(cfg.NotificationService.Timeout)*time.Second,
		metricsCollector,
		log,
	)

	// Инициализируем репозитории
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)

	// Блокировка календаря врача внутри процесса, между процессами - advisory lock в транзакции
	doctorLocks := keylock.New[int64]()

	// Инициализируем сервисы
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		userClient,
		doctorLocks,
		txMgr,
		queryTimeout,
		log,
	)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		userClient,
		dispatcher,
		metricsCollector,
		location,
		queryTimeout,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		userClient,
		doctorLocks,
		txMgr,
		dispatcher,
		metricsCollector,
		createBookingUC.Policy{
			AppointmentDurationMinutes: cfg.Booking.AppointmentDurationMinutes,
			AdvanceBookingDays:         cfg.Booking.AdvanceBookingDays,
			Location:                   location,
			QueryTimeout:               queryTimeout,
		},
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		userClient,
		txMgr,
		metricsCollector,
		getAvailableSlotsUC.Policy{
			AppointmentDurationMinutes: cfg.Booking.AppointmentDurationMinutes,
			SlotStepMinutes:            cfg.Booking.SlotStepMinutes,
			AdvanceBookingDays:         cfg.Booking.AdvanceBookingDays,
			Location:                   location,
			ReadRetries:                cfg.Booking.ReadRetries,
			QueryTimeout:               queryTimeout,
		},
		log,
	)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)
	getPatientAppointments := getPatientAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getDoctorAppointments := getDoctorAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getDoctorSchedule := getDoctorScheduleHandler.NewHandler(scheduleSvc, log)
	replaceDoctorSchedule := replaceDoctorScheduleHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Лимитер запросов
	queryLimit, mutationLimit := rateLimiters(cfg.RateLimit, wrappedDB, metricsCollector, log)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Расписание врача
	api.HandleFunc("/doctors/{doctorId}/schedule", getDoctorSchedule.Handle).Methods(http.MethodGet)

	// Свободные слоты (лимит по IP)
	slots := api.PathPrefix("").Subrouter()
	slots.Use(queryLimit)
	slots.HandleFunc("/doctors/{doctorId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID и X-User-Role)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Чтение ---
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{patientId}/appointments", getPatientAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/doctors/{doctorId}/appointments", getDoctorAppointments.Handle).Methods(http.MethodGet)

	// --- Изменения (лимит по пользователю) ---
	mutations := protected.PathPrefix("").Subrouter()
	mutations.Use(mutationLimit)
	mutations.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	mutations.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	mutations.HandleFunc("/doctors/{doctorId}/schedule", replaceDoctorSchedule.Handle).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся отправки уведомлений, поставленных до остановки
	dispatcher.Wait()
	log.Info("Pending notifications flushed")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}

// rateLimiters собирает middleware лимитов для публичных запросов и изменений
// При выключенном лимите возвращает пропускающие middleware
func rateLimiters(
	cfg config.RateLimitConfig,
	db dbmetrics.DBExecutor,
	collector *metrics.Metrics,
	log *logger.Logger,
) (query mux.MiddlewareFunc, mutation mux.MiddlewareFunc) {
	if !cfg.Enabled {
		log.Info("Rate limiting disabled")
		pass := func(next http.Handler) http.Handler { return next }
		return pass, pass
	}

	var limiter middleware.RateLimiter
	switch cfg.Backend {
	case config.RateLimitBackendPostgres:
		limiter = rateLimitRepo.NewRepository(db)
	default:
		limiter = ratelimit.NewMemory()
	}
	log.Info("Rate limiting enabled (backend=%s, window=%s, query=%d, mutation=%d)",
		cfg.Backend, cfg.Window(), cfg.QueryMaxRequests, cfg.MutationMaxRequests)

	query = middleware.RateLimit(limiter, cfg.Window(), cfg.QueryMaxRequests, middleware.ByIP, collector, log)
	mutation = middleware.RateLimit(limiter, cfg.Window(), cfg.MutationMaxRequests, middleware.ByUser, collector, log)
	return query, mutation
}
