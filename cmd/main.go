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

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/create_booking"
	createLotHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/create_lot"
	deleteLotHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/delete_lot"
	extendBookingHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/extend_booking"
	getBookingHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_booking"
	getLotHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_lot"
	getUserBookingsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_user_bookings"
	listBookingsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/list_bookings"
	listLotsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/list_lots"
	runSweepHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/run_expiration_sweep"
	updateLotHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/update_lot"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/config"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/infra/broker"
	"github.com/m04kA/SMC-ParkingService/internal/infra/locker"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
	lotRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/lot"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/memory"
	paymentServiceClient "github.com/m04kA/SMC-ParkingService/internal/integrations/paymentservice"
	"github.com/m04kA/SMC-ParkingService/internal/service/inventory"
	"github.com/m04kA/SMC-ParkingService/internal/service/ledger"
	cancelBookingUC "github.com/m04kA/SMC-ParkingService/internal/usecase/cancel_booking"
	createBookingUC "github.com/m04kA/SMC-ParkingService/internal/usecase/create_booking"
	deleteLotUC "github.com/m04kA/SMC-ParkingService/internal/usecase/delete_lot"
	expireBookingUC "github.com/m04kA/SMC-ParkingService/internal/usecase/expire_booking"
	extendBookingUC "github.com/m04kA/SMC-ParkingService/internal/usecase/extend_booking"
	reconcileSlotsUC "github.com/m04kA/SMC-ParkingService/internal/usecase/reconcile_slots"
	"github.com/m04kA/SMC-ParkingService/internal/worker/expiration"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/keylock"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
	"github.com/m04kA/SMC-ParkingService/pkg/txmanager"
)

type eventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent) error
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

	log.Info("Starting SMC-ParkingService...")
	log.Info("Configuration loaded (storage=%s, locks=%s)", cfg.Storage.Driver, cfg.Locks.Driver)

	// Метрики; nil *Metrics безопасен для вызова, если они выключены
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Инициализируем хранилища
	var (
		lotRepository     inventory.LotRepository
		bookingRepository ledger.BookingRepository
	)

	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		lotRepository = memory.NewLotStore()
		bookingRepository = memory.NewBookingStore()
		log.Warn("In-memory storage enabled, data is lost on restart")

	default:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		if cfg.Metrics.Enabled {
			wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
			log.Info("Database metrics collection started")

			lotRepository = lotRepo.NewRepository(wrappedDB, txmanager.NewTransactionManager(wrappedDB))
			bookingRepository = bookingRepo.NewRepository(wrappedDB)
		} else {
			lotRepository = lotRepo.NewRepository(db, txmanager.NewTransactionManager(db))
			bookingRepository = bookingRepo.NewRepository(db)
		}
	}

	// Блокировки мест и бронирований
	var keyLocker interface {
		Lock(ctx context.Context, key string) (func(), error)
	}

	switch cfg.Locks.Driver {
	case config.LockDriverRedis:
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Locks.RedisAddr,
			Password: cfg.Locks.RedisPassword,
			DB:       cfg.Locks.RedisDB,
		})
		defer redisClient.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancelPing()
			log.Fatal("Failed to ping redis: %v", err)
		}
		cancelPing()

		keyLocker = locker.NewRedisLocker(redisClient, cfg.Locks.TTL(), log)
		log.Info("Redis locks enabled (addr=%s, ttl=%ds)", cfg.Locks.RedisAddr, cfg.Locks.TTLSeconds)
	default:
		keyLocker = keylock.New()
		log.Info("In-process locks enabled")
	}

	// Публикация событий
	var publisher eventPublisher = broker.NopPublisher{}
	if cfg.Broker.Enabled {
		amqpPublisher, err := broker.NewPublisher(broker.DialConnector(cfg.Broker.URL), cfg.Broker.Exchange, log)
		if err != nil {
			log.Fatal("Failed to connect to broker: %v", err)
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		log.Info("Booking events are published to exchange %s", cfg.Broker.Exchange)
	}

	// Инициализируем сервисы
	inventorySvc := inventory.NewService(lotRepository, log)
	ledgerSvc := ledger.NewService(bookingRepository, keyLocker, log)

	// PaymentService опционален: интерфейс должен остаться nil, а не typed nil
	var paymentClient createBookingUC.PaymentServiceClient
	if cfg.PaymentService.Enabled {
		paymentClient = paymentServiceClient.NewClient(
			cfg.PaymentService.URL,
			time.Duration(cfg.PaymentService.Timeout)*time.Second,
			log,
		)
		log.Info("Integration clients initialized (PaymentService=%s timeout=%ds)",
			cfg.PaymentService.URL, cfg.PaymentService.Timeout)
	}

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(inventorySvc, ledgerSvc, keyLocker, paymentClient, publisher, log)
	extendBookingUseCase := extendBookingUC.NewUseCase(ledgerSvc, publisher, log)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(ledgerSvc, inventorySvc, keyLocker, publisher, log)
	expireBookingUseCase := expireBookingUC.NewUseCase(ledgerSvc, inventorySvc, keyLocker, publisher, log)
	reconcileSlotsUseCase := reconcileSlotsUC.NewUseCase(inventorySvc, ledgerSvc, keyLocker, log)
	deleteLotUseCase := deleteLotUC.NewUseCase(inventorySvc, ledgerSvc, keyLocker, log)

	// Планировщик завершения просроченных бронирований
	scheduler := expiration.NewScheduler(ledgerSvc, expireBookingUseCase, cfg.Scheduler.Interval(), log).
		WithBookingTimeout(cfg.Scheduler.BookingTimeout()).
		WithMetrics(metricsCollector)
	if cfg.Scheduler.ReconcileSlots {
		scheduler = scheduler.WithReconciler(reconcileSlotsUseCase)
	}

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	schedulerDone := make(chan struct{})
	if cfg.Scheduler.Enabled {
		go func() {
			defer close(schedulerDone)
			scheduler.Run(schedulerCtx)
		}()
		log.Info("Expiration scheduler started (interval=%ds)", cfg.Scheduler.IntervalSeconds)
	} else {
		close(schedulerDone)
		log.Warn("Expiration scheduler disabled, use POST /api/v1/admin/expiration-sweep")
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	registerRoutes(r.PathPrefix("/api/v1").Subrouter(), apiHandlers{
		listLots:        listLotsHandler.NewHandler(inventorySvc, log).Handle,
		getLot:          getLotHandler.NewHandler(inventorySvc, log).Handle,
		createLot:       createLotHandler.NewHandler(inventorySvc, log).Handle,
		updateLot:       updateLotHandler.NewHandler(inventorySvc, log).Handle,
		deleteLot:       deleteLotHandler.NewHandler(deleteLotUseCase, log).Handle,
		createBooking:   createBookingHandler.NewHandler(createBookingUseCase, metricsCollector, log).Handle,
		getBooking:      getBookingHandler.NewHandler(ledgerSvc, log).Handle,
		extendBooking:   extendBookingHandler.NewHandler(extendBookingUseCase, metricsCollector, log).Handle,
		cancelBooking:   cancelBookingHandler.NewHandler(cancelBookingUseCase, metricsCollector, log).Handle,
		getUserBookings: getUserBookingsHandler.NewHandler(ledgerSvc, log).Handle,
		listBookings:    listBookingsHandler.NewHandler(ledgerSvc, log).Handle,
		runSweep:        runSweepHandler.NewHandler(scheduler, log).Handle,
	})

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

	// Сначала останавливаем планировщик, затем сбор метрик пула
	stopScheduler()
	select {
	case <-schedulerDone:
		log.Info("Expiration scheduler stopped")
	case <-shutdownCtx.Done():
		log.Warn("Expiration scheduler did not stop before shutdown timeout")
	}

	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
