package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/rental_desk/internal/api"
	"github.com/Freeeeeet/rental_desk/internal/app"
	"github.com/Freeeeeet/rental_desk/internal/config"
	"github.com/Freeeeeet/rental_desk/internal/controller"
	"github.com/Freeeeeet/rental_desk/internal/repository"
	"github.com/Freeeeeet/rental_desk/internal/service"
	"github.com/Freeeeeet/rental_desk/internal/session"
	"github.com/Freeeeeet/rental_desk/migrations"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required but not set")
	}

	logger := app.MustLogger(cfg.Environment, "bot")
	defer logger.Sync()

	logger.Sugar().Infow("Starting rental desk bot",
		"environment", cfg.Environment,
		"api", cfg.APIBaseURL,
		"timezone", cfg.Timezone.String(),
		"transition_policy", string(cfg.TransitionPolicy),
		"token_length", len(cfg.TelegramToken))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Database is not reachable", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	if err := migrator.Close(); err != nil {
		logger.Warn("Failed to close migrator", zap.Error(err))
	}

	// Хранилища
	sessionRepo := repository.NewOperatorSessionRepository(pool)
	digestRepo := repository.NewDigestRepository(pool)

	// Отдельный HTTP-клиент с cookie на каждого оператора
	registry := session.NewRegistry(sessionRepo, func() (*api.Client, error) {
		return api.NewClient(cfg.APIBaseURL, cfg.APITimeout, logger.Named("api"))
	}, logger.Named("session"))

	// Сервисы
	adminService := service.NewAdminService(logger)
	services := controller.Services{
		Auth:         service.NewAuthService(registry, logger),
		Reservations: service.NewReservationService(cfg.TransitionPolicy, cfg.Timezone, logger),
		Fleet:        service.NewFleetService(logger),
		Admin:        adminService,
		Dashboard:    service.NewDashboardService(adminService, logger),
	}

	b, err := bot.New(cfg.TelegramToken,
		bot.WithMiddlewares(controller.AllowlistMiddleware(cfg.IsAllowed, logger)),
		bot.WithErrorsHandler(func(err error) {
			logger.Error("Telegram polling error", zap.Error(err))
		}),
	)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(b, services, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		// Без меню команд бот всё равно работает
		logger.Warn("Failed to register bot commands", zap.Error(err))
	}

	scheduler := app.NewScheduler(app.SchedulerConfig{
		Hour:     cfg.DigestHour,
		Location: cfg.Timezone,
	}, services.Auth, services.Reservations, digestRepo, botController, logger.Named("scheduler"))
	scheduler.Start(ctx)
	defer scheduler.Stop()

	// Блокируется до сигнала остановки
	if err := botController.Start(ctx); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Rental desk bot stopped")
}
