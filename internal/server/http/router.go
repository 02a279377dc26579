// Package http содержит компоненты для HTTP сервера.
package http

import (
	"github.com/gofiber/fiber/v3"

	authapi "carmarket/internal/auth/ports/api"
	"carmarket/internal/auth/ports/repositories"
	svc "carmarket/internal/auth/ports/services"
	carapi "carmarket/internal/inventory/ports/api"
	"carmarket/internal/server/http/auth"
	"carmarket/internal/server/http/cars"
	"carmarket/internal/server/http/events"
	"carmarket/internal/server/http/middleware"
)

// RouterDeps - зависимости маршрутизатора.
type RouterDeps struct {
	AuthUseCase     authapi.AuthUseCase
	UserUseCase     authapi.UserUseCase
	CarUseCase      carapi.CarUseCase
	TokenService    svc.TokenService
	UserRepository  repositories.UserRepository
	Hub             *events.Hub
	DefaultPageSize int
}

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, deps RouterDeps) {
	authHandler := auth.NewHandler(deps.AuthUseCase, deps.UserUseCase)
	carHandler := cars.NewHandler(deps.CarUseCase, deps.DefaultPageSize)
	streamHandler := events.NewStreamHandler(deps.Hub)
	guard := middleware.NewAuthGuard(deps.TokenService, deps.UserRepository)

	// Middleware для всех запросов.
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	app.Get("/health", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	// Auth routes (публичные, кроме профиля).
	authRoutes := app.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Get("/profile", authHandler.GetProfile, guard)

	// Маршруты каталога. Чтение публичное, мутации закрыты guard'ом,
	// поэтому guard ставится на конкретные маршруты, а не на группу.
	carRoutes := app.Group("/cars")
	carRoutes.Get("/", carHandler.List)
	carRoutes.Get("/filters", carHandler.GetFilterOptions)
	carRoutes.Get("/events", streamHandler)
	carRoutes.Get("/:id", carHandler.GetByID)
	carRoutes.Post("/", carHandler.Create, guard)
	carRoutes.Put("/:id", carHandler.Update, guard)
	carRoutes.Patch("/:id", carHandler.Update, guard)
	carRoutes.Delete("/:id", carHandler.Delete, guard)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
		})
	})
}
