package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-backoffice/internal/config"
	"github.com/iliyamo/hotel-backoffice/internal/database"
	"github.com/iliyamo/hotel-backoffice/internal/handler"
	"github.com/iliyamo/hotel-backoffice/internal/middleware"
	"github.com/iliyamo/hotel-backoffice/internal/queue"
	"github.com/iliyamo/hotel-backoffice/internal/repository"
	"github.com/iliyamo/hotel-backoffice/internal/router"
	"github.com/iliyamo/hotel-backoffice/internal/service"
)

func main() {
	cfg := config.Load()

	logger, err := config.NewLogger(cfg.LogLevel, cfg.LogFormat, "hotel-backoffice")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DBOptions())
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	if cfg.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			logger.Fatal("schema migration failed", zap.Error(err))
		}
		logger.Info("schema applied")
	}

	rdb := config.NewRedisClient(cfg.Redis, logger)
	if rdb != nil {
		defer rdb.Close()
	}

	// ---- Repositories ----
	roomTypeRepo := repository.NewRoomTypeRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	tx := database.NewTxRunner(db)

	// ---- Services ----
	publisher := queue.NewPublisher(cfg.AMQPURL, logger)
	paymentSvc := service.NewPaymentService(tx, paymentRepo, reservationRepo, roomRepo, logger)
	reservationSvc := service.NewReservationService(tx, roomTypeRepo, reservationRepo, paymentRepo, roomRepo, paymentSvc, publisher, logger)
	roomTypeSvc := service.NewRoomTypeService(roomTypeRepo, logger)
	roomSvc := service.NewRoomService(tx, roomRepo, roomTypeRepo, logger)
	userSvc := service.NewUserService(tx, userRepo, roleRepo, cfg.BcryptCost, logger)
	authSvc := service.NewAuthService(userRepo, tokenRepo, service.AuthSettings{
		JWTSecret:      cfg.JWTSecret,
		AccessTTLMin:   cfg.AccessTTLMin,
		RefreshTTLDays: cfg.RefreshTTLDays,
	}, logger)

	// Re-runs payment derivation for every committed reservation.
	consumer := queue.NewConsumer(cfg.AMQPURL, paymentSvc, logger,
		service.ErrInvalidPaymentPlan, service.ErrReservationNotFound)
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("reservation consumer stopped", zap.Error(err))
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))

	router.RegisterRoutes(e, router.Deps{
		JWTSecret: cfg.JWTSecret,
		DB:        db,
		Redis:     rdb,
		RateLimit: cfg.RateLimit,
		Cache:     cfg.Cache,
		Logger:    logger,

		Auth:         handler.NewAuthHandler(authSvc, userSvc, cfg.JWTSecret, logger),
		Reservations: handler.NewReservationHandler(reservationSvc, logger),
		Payments:     handler.NewPaymentHandler(paymentSvc, logger),
		RoomTypes:    handler.NewRoomTypeHandler(roomTypeSvc, logger),
		Rooms:        handler.NewRoomHandler(roomSvc, logger),
		Users:        handler.NewUserHandler(userSvc, logger),
	})

	addr := ":" + cfg.Port
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	select {
	case <-consumerDone:
	case <-shutdownCtx.Done():
		logger.Warn("reservation consumer did not stop in time")
	}
}
