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

	cancelBookingHandler "github.com/m04kA/MFB-BookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/MFB-BookingService/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/m04kA/MFB-BookingService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/MFB-BookingService/internal/api/handlers/get_booking"
	getFacilityBookingsHandler "github.com/m04kA/MFB-BookingService/internal/api/handlers/get_facility_bookings"
	getFacilityZonesHandler "github.com/m04kA/MFB-BookingService/internal/api/handlers/get_facility_zones"
	getUserBookingsHandler "github.com/m04kA/MFB-BookingService/internal/api/handlers/get_user_bookings"
	previewBookingHandler "github.com/m04kA/MFB-BookingService/internal/api/handlers/preview_booking"
	updateBookingStatusHandler "github.com/m04kA/MFB-BookingService/internal/api/handlers/update_booking_status"
	updateZoneRulesHandler "github.com/m04kA/MFB-BookingService/internal/api/handlers/update_zone_rules"
	"github.com/m04kA/MFB-BookingService/internal/api/middleware"
	"github.com/m04kA/MFB-BookingService/internal/config"
	bookingRepo "github.com/m04kA/MFB-BookingService/internal/infra/storage/booking"
	zoneRepo "github.com/m04kA/MFB-BookingService/internal/infra/storage/zone"
	facilityRegistryClient "github.com/m04kA/MFB-BookingService/internal/integrations/facilityregistry"
	bookingsService "github.com/m04kA/MFB-BookingService/internal/service/bookings"
	zonesService "github.com/m04kA/MFB-BookingService/internal/service/zones"
	createBookingUC "github.com/m04kA/MFB-BookingService/internal/usecase/create_booking"
	getAvailabilityUC "github.com/m04kA/MFB-BookingService/internal/usecase/get_availability"
	previewBookingUC "github.com/m04kA/MFB-BookingService/internal/usecase/preview_booking"
	"github.com/m04kA/MFB-BookingService/pkg/dbmetrics"
	"github.com/m04kA/MFB-BookingService/pkg/logger"
	"github.com/m04kA/MFB-BookingService/pkg/metrics"
	"github.com/m04kA/MFB-BookingService/pkg/simpletxmanager"
	"github.com/m04kA/MFB-BookingService/pkg/txmanager"
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

	log.Info("Starting MFB-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Инициализируем клиента реестра объектов
	registryClient := facilityRegistryClient.NewClient(
		cfg.FacilityRegistry.URL,
		time.Duration(cfg.FacilityRegistry.Timeout)*time.Second,
		log,
	)
	log.Info("Facility registry client initialized (url=%s, timeout=%ds)",
		cfg.FacilityRegistry.URL, cfg.FacilityRegistry.Timeout)

	// Интерфейс transaction manager, общий для обеих реализаций
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		zoneRepository    *zoneRepo.Repository
		txMgr             TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		zoneRepository = zoneRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		zoneRepository = zoneRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	zoneSvc := zonesService.NewService(zoneRepository, log)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		zoneRepository,
		registryClient,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		zoneSvc,
		registryClient,
		txMgr,
		log,
	)

	previewBookingUseCase := previewBookingUC.NewUseCase(
		bookingRepository,
		zoneSvc,
		registryClient,
		log,
	)

	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		bookingRepository,
		zoneSvc,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	previewBooking := previewBookingHandler.NewHandler(previewBookingUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getFacilityBookings := getFacilityBookingsHandler.NewHandler(bookingSvc, log)
	getFacilityZones := getFacilityZonesHandler.NewHandler(zoneSvc, log)
	updateZoneRules := updateZoneRulesHandler.NewHandler(zoneSvc, registryClient, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации, с rate limiting)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		public.Use(limiter.Middleware)
		log.Info("Rate limiting enabled for public routes (rps=%.1f, burst=%d)",
			cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// Зоны объекта с правилами бронирования
	public.HandleFunc("/facilities/{facilityId}/zones",
		getFacilityZones.Handle).Methods(http.MethodGet)

	// Доступность зоны на дату
	public.HandleFunc("/facilities/{facilityId}/zones/{zoneId}/availability",
		getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Предпросмотр бронирования (котировка + конфликты, без записи)
	protected.HandleFunc("/bookings/preview", previewBooking.Handle).Methods(http.MethodPost)

	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Подтверждение/отклонение бронирования (workflow согласования)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Управление объектом (для администраторов) ---
	// Список бронирований объекта
	protected.HandleFunc("/facilities/{facilityId}/bookings", getFacilityBookings.Handle).Methods(http.MethodGet)

	// Обновление правил бронирования зоны
	protected.HandleFunc("/facilities/{facilityId}/zones/{zoneId}/rules",
		updateZoneRules.Handle).Methods(http.MethodPut)

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

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
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
}
