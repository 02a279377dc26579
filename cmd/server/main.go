// Package main реализует точку входа сервера каталога автомобилей.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	authadapters "carmarket/internal/auth/adapters/postgres"
	authservices "carmarket/internal/auth/adapters/services"
	authapp "carmarket/internal/auth/app"
	"carmarket/internal/inventory/adapters/broadcast"
	invadapters "carmarket/internal/inventory/adapters/postgres"
	invapp "carmarket/internal/inventory/app"
	"carmarket/internal/server/config"
	"carmarket/internal/server/db"
	serverhttp "carmarket/internal/server/http"
	"carmarket/internal/server/http/events"
	"carmarket/pkg/db/redis"
	"carmarket/pkg/logger"
	"carmarket/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "CARMARKET_LOGGER_MODE"
	EnvLoggerLevel = "CARMARKET_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitDB               = "failed to initialize database"
	ErrInitRedis            = "failed to initialize redis client"
	ErrSubscribeBroadcast   = "failed to subscribe to broadcast channel"
	ErrStartHTTP            = "failed to start HTTP server"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "car market server started"
	LogServiceShutdownDone = "car market server shutdown complete"
	LogClosingDB           = "closing database connections"
	LogClosingRedis        = "closing redis connection"
	LogStoppingHTTP        = "stopping HTTP server"
	LogInitRepo            = "initializing repositories"
	LogInitServices        = "initializing services"
	LogInitUseCases        = "initializing use cases"
	LogInitBroadcast       = "initializing broadcast channel"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
)

const migrationsPath = "migrations"

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)

		database, err := db.New(ctx, &cfg.Postgres, migrationsPath)
		if err != nil {
			log.Error(ctx, ErrInitDB, zap.Error(err))
			exitCode = 1
			return
		}

		redisClient, err := redis.NewClient(cfg.Redis.GetClientConfig())
		if err != nil {
			log.Error(ctx, ErrInitRedis, zap.Error(err))
			database.Close(ctx)
			exitCode = 1
			return
		}

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(env)),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		log.Info(ctx, LogInitRepo)
		userRepo := authadapters.NewUserRepository(database.Pool())
		carRepo := invadapters.NewCarRepository(database.Pool())

		log.Info(ctx, LogInitServices)
		serviceFactory := authservices.NewServiceFactory(
			cfg.JWT.SecretKey,
			cfg.JWT.GetAccessTokenTTL(),
			cfg.JWT.BCryptCost,
		)
		passwordService := serviceFactory.PasswordService()
		tokenService := serviceFactory.TokenService()

		log.Info(ctx, LogInitBroadcast)
		publisher := broadcast.NewRedisPublisher(redisClient.RawClient(), broadcast.DefaultChannel)
		subscriber := broadcast.NewRedisSubscriber(redisClient.RawClient(), broadcast.DefaultChannel)

		log.Info(ctx, LogInitUseCases)
		authUseCase := authapp.NewAuthUseCase(userRepo, passwordService, tokenService)
		userUseCase := authapp.NewUserUseCase(userRepo)
		carUseCase := invapp.NewCarUseCase(carRepo, publisher)

		hubCtx, cancelHub := context.WithCancel(ctx)
		defer cancelHub()

		hub := events.NewHub()
		snapshots, err := subscriber.Subscribe(hubCtx)
		if err != nil {
			log.Error(ctx, ErrSubscribeBroadcast, zap.Error(err))
			database.Close(ctx)
			_ = redisClient.Close()
			exitCode = 1
			return
		}
		go hub.Run(hubCtx, snapshots)

		log.Info(ctx, LogInitHTTPServer)
		app := fiber.New(fiber.Config{
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
		})

		serverhttp.SetupRouter(app, serverhttp.RouterDeps{
			AuthUseCase:     authUseCase,
			UserUseCase:     userUseCase,
			CarUseCase:      carUseCase,
			TokenService:    tokenService,
			UserRepository:  userRepo,
			Hub:             hub,
			DefaultPageSize: cfg.HTTP.DefaultPageSize,
		})

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
		go func() {
			if err := app.Listen(cfg.HTTP.GetAddress()); err != nil {
				log.Error(ctx, ErrStartHTTP, zap.Error(err))
			}
		}()

		shutdown.Wait(cfg.Shutdown.GetTimeout(),
			func(shutdownCtx context.Context) error {
				log.Info(shutdownCtx, LogStoppingHTTP)
				return app.ShutdownWithContext(shutdownCtx)
			},
			func(shutdownCtx context.Context) error {
				cancelHub()
				log.Info(shutdownCtx, LogClosingDB)
				database.Close(shutdownCtx)
				return nil
			},
			func(shutdownCtx context.Context) error {
				log.Info(shutdownCtx, LogClosingRedis)
				return redisClient.Close()
			},
		)

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
