// Package main реализует консольный клиент каталога автомобилей.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"carmarket/internal/client/api"
	"carmarket/internal/client/config"
	"carmarket/internal/client/events"
	"carmarket/internal/client/state"
	"carmarket/internal/inventory/domain/entities"
	"carmarket/pkg/logger"
)

// Константы для переменных окружения.
const (
	EnvEmail    = "CARMARKET_CLIENT_EMAIL"
	EnvPassword = "CARMARKET_CLIENT_PASSWORD"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger = "failed to initialize logger"
	ErrLoadConfig = "failed to load configuration"
	ErrLogin      = "failed to log in"
	ErrFetchCars  = "failed to fetch cars"
	ErrSubscribe  = "failed to subscribe to car events"
)

// Константы для сообщений клиента.
const (
	LogClientStarted   = "car market client started"
	LogClientStopped   = "car market client stopped"
	LogSessionOpened   = "session opened"
	LogAnonymousMode   = "no credentials provided, browsing anonymously"
	LogSnapshotApplied = "live snapshot applied"
)

func main() {
	env := logger.Development

	log, err := logger.NewLogger(env, "")
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}
	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	if code := run(ctx, log); code != 0 {
		os.Exit(code)
	}
}

func run(ctx context.Context, log *logger.Logger) int {
	cfg, err := config.Load()
	if err != nil {
		log.Error(ctx, ErrLoadConfig, zap.Error(err))
		return 1
	}

	finalLogger, err := logger.NewLogger(logger.Environment(cfg.Environment), cfg.LogLevel)
	if err == nil {
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger
	}

	log.Info(ctx, LogClientStarted, zap.String("server", cfg.ServerURL))

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	restClient := api.NewClient(cfg.ServerURL, httpClient)
	store := state.NewStore(restClient, cfg.CacheFreshness)

	email := os.Getenv(EnvEmail)
	password := os.Getenv(EnvPassword)
	if email != "" && password != "" {
		if err := restClient.Login(ctx, email, password); err != nil {
			log.Error(ctx, ErrLogin, zap.Error(err))
			return 1
		}
		store.SetAuthenticated(true)
		log.Info(ctx, LogSessionOpened, zap.String("email", email))
	} else {
		log.Info(ctx, LogAnonymousMode)
	}

	cars, totalPages, err := store.FetchCars(ctx)
	if err != nil {
		log.Error(ctx, ErrFetchCars, zap.Error(err))
		return 1
	}
	renderPage(cars, store.Filter().Page, totalPages)

	streamCtx, cancelStream := context.WithCancel(ctx)
	defer cancelStream()

	// Поток событий живет до завершения клиента. Сетевой таймаут здесь
	// не подходит: соединение долгоживущее.
	subscriber := events.NewSubscriber(cfg.EventsURL(), &http.Client{})
	snapshots, err := subscriber.Subscribe(streamCtx)
	if err != nil {
		log.Error(ctx, ErrSubscribe, zap.Error(err))
		return 1
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			cancelStream()
			log.Info(ctx, LogClientStopped)
			return 0
		case snapshot, ok := <-snapshots:
			if !ok {
				log.Info(ctx, LogClientStopped)
				return 0
			}
			store.ApplyBroadcast(snapshot)
			log.Info(ctx, LogSnapshotApplied, zap.Int("cars", len(snapshot)))
			view, pages := store.View()
			renderPage(view, store.Filter().Page, pages)
		}
	}
}

func renderPage(cars []*entities.Car, page, totalPages int) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "page %d of %d\n", page, totalPages)
	for _, car := range cars {
		fmt.Fprintf(&sb, "  %s %s (%d) %.2f %s [%s] vin=%s\n",
			car.Make, car.Model, car.Year, car.Price, car.Currency, car.ShippingStatus, car.VIN)
	}
	fmt.Print(sb.String())
}
