package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	cancelBookingHandler "github.com/m04kA/AppointmentService/internal/api/handlers/cancel_booking"
	cancelSeriesHandler "github.com/m04kA/AppointmentService/internal/api/handlers/cancel_series"
	createBookingHandler "github.com/m04kA/AppointmentService/internal/api/handlers/create_booking"
	deleteProviderSettingsHandler "github.com/m04kA/AppointmentService/internal/api/handlers/delete_provider_settings"
	getAvailableSlotsHandler "github.com/m04kA/AppointmentService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/AppointmentService/internal/api/handlers/get_booking"
	getPatientBookingsHandler "github.com/m04kA/AppointmentService/internal/api/handlers/get_patient_bookings"
	getProviderBookingsHandler "github.com/m04kA/AppointmentService/internal/api/handlers/get_provider_bookings"
	getProviderSettingsHandler "github.com/m04kA/AppointmentService/internal/api/handlers/get_provider_settings"
	listProviderSettingsHandler "github.com/m04kA/AppointmentService/internal/api/handlers/list_provider_settings"
	rescheduleBookingHandler "github.com/m04kA/AppointmentService/internal/api/handlers/reschedule_booking"
	updateBookingStatusHandler "github.com/m04kA/AppointmentService/internal/api/handlers/update_booking_status"
	updateProviderSettingsHandler "github.com/m04kA/AppointmentService/internal/api/handlers/update_provider_settings"
	"github.com/m04kA/AppointmentService/internal/api/middleware"
	"github.com/m04kA/AppointmentService/internal/config"
	"github.com/m04kA/AppointmentService/internal/infra/cache/slots"
	bookingRepo "github.com/m04kA/AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/AppointmentService/internal/infra/storage/migrations"
	settingsRepo "github.com/m04kA/AppointmentService/internal/infra/storage/settings"
	notificationServiceClient "github.com/m04kA/AppointmentService/internal/integrations/notificationservice"
	providerServiceClient "github.com/m04kA/AppointmentService/internal/integrations/providerservice"
	userServiceClient "github.com/m04kA/AppointmentService/internal/integrations/userservice"
	bookingsService "github.com/m04kA/AppointmentService/internal/service/bookings"
	"github.com/m04kA/AppointmentService/internal/service/conflicts"
	"github.com/m04kA/AppointmentService/internal/service/recurrence"
	settingsService "github.com/m04kA/AppointmentService/internal/service/settings"
	createBookingUC "github.com/m04kA/AppointmentService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/AppointmentService/internal/usecase/get_available_slots"
	rescheduleBookingUC "github.com/m04kA/AppointmentService/internal/usecase/reschedule_booking"
	"github.com/m04kA/AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/AppointmentService/pkg/logger"
	"github.com/m04kA/AppointmentService/pkg/metrics"
	"github.com/m04kA/AppointmentService/pkg/txmanager"
)

const redisPingTimeout = 3 * time.Second

func newServeCommand() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP сервер",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfigAndLogger()
			if err != nil {
				return err
			}
			defer log.Close()

			return serve(cmd.Context(), cfg, log, migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "применить миграции перед запуском")

	return cmd
}

func serve(ctx context.Context, cfg *config.Config, log *logger.Logger, migrate bool) error {
	log.Info("Starting AppointmentService...")

	location, err := cfg.Booking.Location()
	if err != nil {
		return fmt.Errorf("invalid booking timezone: %w", err)
	}

	// Инициализируем метрики (если включены)
	// nil коллектор превращает dbmetrics.DB в простой прокси
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	defer close(stopMetricsCh)

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := openDatabase(cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Database.DBName, stopMetricsCh)

	if migrate {
		applied, err := migrations.NewMigrator(wrappedDB, log).Up(ctx)
		if err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		log.Info("Applied %d migrations", applied)
	}

	// Кеш доступности (nil кеш = всегда промах)
	availabilityCache, closeRedis := newAvailabilityCache(ctx, cfg.Redis, log)
	defer closeRedis()

	// Инициализируем интеграционных клиентов
	userClient := userServiceClient.NewClient(cfg.UserService.URL, cfg.UserService.TimeoutDuration(), log)
	providerClient := providerServiceClient.NewClient(cfg.ProviderService.URL, cfg.ProviderService.TimeoutDuration(), log)
	notifier := notificationServiceClient.NewClient(cfg.NotificationService.URL, cfg.NotificationService.TimeoutDuration(), log)
	log.Info("Integration clients initialized (ProviderService=%s, UserService=%s, NotificationService=%s)",
		cfg.ProviderService.URL, cfg.UserService.URL, cfg.NotificationService.URL)

	// Репозитории и транзакции
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	settingsRepository := settingsRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Доменные сервисы
	checker := conflicts.NewChecker(bookingRepository, cfg.Booking.TourWindow())
	expander := recurrence.NewExpander(cfg.Booking.DefaultRecurrenceDays, cfg.Booking.MaxOccurrences)

	bookingSvc := bookingsService.NewService(
		bookingRepository,
		providerClient,
		txMgr,
		notifier,
		availabilityCache,
		&bookingsService.RealTimeProvider{},
		cfg.Booking.CancellationWindow(),
		log,
	)
	settingsSvc := settingsService.NewService(
		settingsRepository,
		providerClient,
		availabilityCache,
		log,
	).WithDefaults(cfg.Booking.DefaultSlotMinutes, cfg.Booking.DefaultDaysAhead)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		checker,
		expander,
		settingsSvc,
		providerClient,
		userClient,
		txMgr,
		notifier,
		availabilityCache,
		&createBookingUC.RealTimeProvider{},
		cfg.Booking.LeadTime(),
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		checker,
		settingsSvc,
		providerClient,
		txMgr,
		notifier,
		availabilityCache,
		&rescheduleBookingUC.RealTimeProvider{},
		cfg.Booking.LeadTime(),
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		settingsSvc,
		providerClient,
		availabilityCache,
		&getAvailableSlotsUC.RealTimeProvider{},
		location,
		log,
	)

	router := newRouter(cfg.Metrics, metricsCollector, routes{
		createBooking:          createBookingHandler.NewHandler(createBookingUseCase, log),
		getAvailableSlots:      getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log),
		getBooking:             getBookingHandler.NewHandler(bookingSvc, log),
		cancelBooking:          cancelBookingHandler.NewHandler(bookingSvc, log),
		cancelSeries:           cancelSeriesHandler.NewHandler(bookingSvc, log),
		rescheduleBooking:      rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log),
		updateBookingStatus:    updateBookingStatusHandler.NewHandler(bookingSvc, log),
		getPatientBookings:     getPatientBookingsHandler.NewHandler(bookingSvc, log),
		getProviderBookings:    getProviderBookingsHandler.NewHandler(bookingSvc, log),
		getProviderSettings:    getProviderSettingsHandler.NewHandler(settingsSvc, log),
		listProviderSettings:   listProviderSettingsHandler.NewHandler(settingsSvc, log),
		updateProviderSettings: updateProviderSettingsHandler.NewHandler(settingsSvc, log),
		deleteProviderSettings: deleteProviderSettingsHandler.NewHandler(settingsSvc, log),
	})

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения или падение сервера
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("Received %s, shutting down server...", sig)
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}

// newAvailabilityCache подключает Redis, при недоступности работает без кеша
func newAvailabilityCache(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*slots.Cache, func()) {
	if !cfg.Enabled {
		log.Info("Availability cache disabled")
		return nil, func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis at %s is unavailable, availability cache disabled: %v", cfg.Addr, err)
		_ = rdb.Close()
		return nil, func() {}
	}

	log.Info("Availability cache connected to redis at %s (ttl=%ds)", cfg.Addr, cfg.TTL)
	return slots.NewCache(rdb, time.Duration(cfg.TTL)*time.Second), func() {
		if err := rdb.Close(); err != nil {
			log.Warn("Failed to close redis client: %v", err)
		}
	}
}

type routes struct {
	createBooking          *createBookingHandler.Handler
	getAvailableSlots      *getAvailableSlotsHandler.Handler
	getBooking             *getBookingHandler.Handler
	cancelBooking          *cancelBookingHandler.Handler
	cancelSeries           *cancelSeriesHandler.Handler
	rescheduleBooking      *rescheduleBookingHandler.Handler
	updateBookingStatus    *updateBookingStatusHandler.Handler
	getPatientBookings     *getPatientBookingsHandler.Handler
	getProviderBookings    *getProviderBookingsHandler.Handler
	getProviderSettings    *getProviderSettingsHandler.Handler
	listProviderSettings   *listProviderSettingsHandler.Handler
	updateProviderSettings *updateProviderSettingsHandler.Handler
	deleteProviderSettings *deleteProviderSettingsHandler.Handler
}

func newRouter(cfg config.MetricsConfig, metricsCollector *metrics.Metrics, h routes) *mux.Router {
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if metricsCollector != nil {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Path, promhttp.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступность провайдера по дням
	api.HandleFunc("/providers/{providerId}/slots", h.getAvailableSlots.Handle).Methods(http.MethodGet)

	// Действующие настройки бронирования провайдера
	api.HandleFunc("/providers/{providerId}/settings", h.getProviderSettings.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", h.createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", h.getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", h.cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/reschedule", h.rescheduleBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/status", h.updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/series/{seriesId}/cancel", h.cancelSeries.Handle).Methods(http.MethodPatch)

	// История бронирований пациента
	protected.HandleFunc("/patients/{patientId}/bookings", h.getPatientBookings.Handle).Methods(http.MethodGet)

	// --- Управление провайдером (для менеджеров) ---
	protected.HandleFunc("/providers/{providerId}/bookings", h.getProviderBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/providers/{providerId}/settings/all", h.listProviderSettings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/providers/{providerId}/settings", h.updateProviderSettings.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/settings/{settingsId}", h.deleteProviderSettings.Handle).Methods(http.MethodDelete)

	return r
}
