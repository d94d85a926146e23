package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-BanquetService/internal/api"
	"github.com/m04kA/SMC-BanquetService/internal/api/middleware"
	"github.com/m04kA/SMC-BanquetService/internal/config"
	"github.com/m04kA/SMC-BanquetService/internal/domain"
	"github.com/m04kA/SMC-BanquetService/internal/infra/lock"
	bookingsService "github.com/m04kA/SMC-BanquetService/internal/service/bookings"
	"github.com/m04kA/SMC-BanquetService/internal/service/conflicts"
	enquiriesService "github.com/m04kA/SMC-BanquetService/internal/service/enquiries"
	changeStatusUC "github.com/m04kA/SMC-BanquetService/internal/usecase/change_enquiry_status"
	checkAvailabilityUC "github.com/m04kA/SMC-BanquetService/internal/usecase/check_availability"
	createBookingUC "github.com/m04kA/SMC-BanquetService/internal/usecase/create_booking"
	createEnquiryUC "github.com/m04kA/SMC-BanquetService/internal/usecase/create_enquiry"
	updateEnquiryUC "github.com/m04kA/SMC-BanquetService/internal/usecase/update_enquiry"
	"github.com/m04kA/SMC-BanquetService/pkg/logger"
	"github.com/m04kA/SMC-BanquetService/pkg/metrics"
)

type venueLocker interface {
	Lock(ctx context.Context, sessions []domain.Session) (lock.Unlock, error)
}

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

	log.Info("Starting SMC-BanquetService...")
	log.Info("Configuration loaded (storage=%s, timezone=%s)", cfg.Storage.Driver, cfg.Server.Timezone)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к хранилищу
	store, err := openStorage(cfg, log, metricsCollector, stopMetricsCh)
	if err != nil {
		log.Fatal("Failed to initialize storage: %v", err)
	}
	defer store.close()

	// Блокировки дат площадок в Redis (если включены)
	var locker venueLocker = lock.NoopLocker{}
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Address, err)
		}

		locker = lock.NewRedisLocker(redisClient, cfg.Redis.Prefix, cfg.Redis.LockTTLDuration())
		log.Info("Venue locks enabled (redis=%s, ttl=%s)", cfg.Redis.Address, cfg.Redis.LockTTLDuration())
	}

	// Инициализируем проверку конфликтов
	checkerOpts := []conflicts.Option{conflicts.WithinBatch(cfg.Conflicts.CheckWithinBatch)}
	if metricsCollector != nil {
		checkerOpts = append(checkerOpts, conflicts.WithRecorder(metricsCollector))
	}
	checker := conflicts.NewChecker(store.bookings, store.enquiries, log, checkerOpts...)

	// Инициализируем use cases
	createEnquiryUseCase := createEnquiryUC.NewUseCase(
		store.enquiries,
		store.audit,
		checker,
		store.tx,
		log,
	)
	updateEnquiryUseCase := updateEnquiryUC.NewUseCase(
		store.enquiries,
		store.audit,
		store.claims,
		locker,
		checker,
		store.tx,
		log,
	)
	changeStatusUseCase := changeStatusUC.NewUseCase(
		store.enquiries,
		store.audit,
		store.claims,
		locker,
		checker,
		store.tx,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		store.bookings,
		store.enquiries,
		store.audit,
		store.claims,
		locker,
		checker,
		store.tx,
		log,
	)
	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(checker, log)

	// Инициализируем сервисы
	enquirySvc := enquiriesService.NewService(store.enquiries, store.audit, log)
	bookingSvc := bookingsService.NewService(store.bookings, store.claims, store.audit, store.tx, log)

	// Настраиваем роутер
	router := api.NewRouter(api.Dependencies{
		CreateEnquiry:     createEnquiryUseCase,
		UpdateEnquiry:     updateEnquiryUseCase,
		ChangeStatus:      changeStatusUseCase,
		CreateBooking:     createBookingUseCase,
		CheckAvailability: checkAvailabilityUseCase,
		Enquiries:         enquirySvc,
		Bookings:          bookingSvc,
		Auth:              middleware.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer, log),
		Location:          cfg.Server.Location(),
		Logger:            log,
		Metrics:           metricsCollector,
		MetricsPath:       cfg.Metrics.Path,
		Health:            store.health,
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

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

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
