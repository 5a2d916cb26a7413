package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Omarzahran17/gym-flow-sub000/internal/attendance"
	"github.com/Omarzahran17/gym-flow-sub000/internal/booking"
	"github.com/Omarzahran17/gym-flow-sub000/internal/class"
	"github.com/Omarzahran17/gym-flow-sub000/internal/config"
	"github.com/Omarzahran17/gym-flow-sub000/internal/db"
	"github.com/Omarzahran17/gym-flow-sub000/internal/email"
	"github.com/Omarzahran17/gym-flow-sub000/internal/logger"
	"github.com/Omarzahran17/gym-flow-sub000/internal/server"
	"github.com/Omarzahran17/gym-flow-sub000/internal/storage"
	"github.com/Omarzahran17/gym-flow-sub000/internal/subscription"
	"github.com/Omarzahran17/gym-flow-sub000/internal/user"
	"github.com/Omarzahran17/gym-flow-sub000/internal/wallet"

	"github.com/redis/go-redis/v9"
)

// @title GymFlow API
// @version 1.0
// @description Gym class booking, subscriptions and check-ins.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	logger.Info("Starting GymFlow", "port", cfg.Port, "timezone", cfg.Timezone)

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var files storage.FileStorage
	if cfg.S3.Enabled() {
		files, err = storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			logger.Fatalf("Failed to init class media storage: %v", err)
		}
		logger.Info("Class media storage enabled", "bucket", cfg.S3.Bucket)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	emailService := email.New(rdb, email.SMTPConfig{
		From:     cfg.EmailFrom,
		FromName: cfg.EmailFromName,
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Pass:     cfg.SMTPPass,
	})
	defer emailService.Close()

	tx := db.NewTxManager(database)

	userService := user.NewService(user.NewRepository(database), tx, cfg.JWTSecret)
	walletService := wallet.NewService(wallet.NewRepository(database), tx)
	subscriptionService := subscription.NewService(subscription.NewRepository(database), tx, walletService, cfg.Location)

	classRepo := class.NewRepository(database)
	classService := class.NewService(classRepo, files)

	bookingService := booking.NewService(
		booking.NewRepository(database),
		classRepo,
		subscriptionService,
		tx,
		userService,
		emailService,
		cfg.Location,
	)
	attendanceService := attendance.NewService(attendance.NewRepository(database), tx, subscriptionService, userService, cfg.Location)

	srv := server.New(cfg, server.Handlers{
		User:         user.NewHandler(userService),
		Class:        class.NewHandler(classService),
		Booking:      booking.NewHandler(bookingService),
		Subscription: subscription.NewHandler(subscriptionService),
		Wallet:       wallet.NewHandler(walletService),
		Attendance:   attendance.NewHandler(attendanceService),
	})

	go emailService.Start(ctx)
	go server.RunSubscriptionExpiry(ctx, subscriptionService, time.Hour)
	go server.RunQueueMonitor(ctx, emailService, 30*time.Second)

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("Server listening on :%s", cfg.Port)
		serverErr <- srv.Start()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Infof("Received signal: %v", s)
	case err := <-serverErr:
		if err != nil {
			logger.Errorf("Server error: %v", err)
		}
	}

	logger.Info("Shutting down gracefully")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
