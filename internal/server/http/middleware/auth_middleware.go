// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"carmarket/internal/auth/domain/entities"
	"carmarket/internal/auth/ports/repositories"
	svc "carmarket/internal/auth/ports/services"
	"carmarket/pkg/logger"
)

// UserIDKey - ключ locals, под которым guard сохраняет ID пользователя.
const UserIDKey = "userID"

// Константы для логирования.
const (
	LogAuthGuard = "auth guard"

	ErrorNoAuthHeader       = "no authorization header provided"
	ErrorInvalidTokenFormat = "invalid token format"
	ErrorInvalidToken       = "invalid or expired token"
	ErrorUnknownTokenUser   = "token does not resolve to a known user"
)

// NewAuthGuard создает guard, который проверяет bearer-токен и разрешает
// запрос только когда subject токена существует. Guard ставится явно перед
// каждым мутирующим обработчиком.
func NewAuthGuard(tokenSvc svc.TokenService, userRepo repositories.UserRepository) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := ctx.Context()
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, LogAuthGuard)

		authHeader := ctx.Get("Authorization")
		if authHeader == "" {
			log.Debug(requestCtx, ErrorNoAuthHeader)
			return unauthorized(ctx, ErrorNoAuthHeader)
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			log.Debug(requestCtx, ErrorInvalidTokenFormat)
			return unauthorized(ctx, ErrorInvalidTokenFormat)
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")

		userID, err := tokenSvc.ValidateAccessToken(requestCtx, token)
		if err != nil {
			log.Debug(requestCtx, ErrorInvalidToken, zap.Error(err))
			return unauthorized(ctx, ErrorInvalidToken)
		}

		if _, err := userRepo.FindByID(requestCtx, userID); err != nil {
			if errors.Is(err, entities.ErrUserNotFound) {
				log.Debug(requestCtx, ErrorUnknownTokenUser, zap.String("userID", userID))
				return unauthorized(ctx, ErrorUnknownTokenUser)
			}
			log.Error(requestCtx, "error resolving token user", zap.Error(err))
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal Server Error",
			})
		}

		ctx.Locals(UserIDKey, userID)

		return ctx.Next()
	}
}

func unauthorized(ctx fiber.Ctx, message string) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
	})
}
