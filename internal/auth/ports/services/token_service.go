// Package services определяет порты вспомогательных сервисов аутентификации.
package services

import (
	"context"
	"time"
)

// TokenService определяет операции выпуска и проверки токенов.
type TokenService interface {
	GenerateAccessToken(ctx context.Context, userID string) (string, time.Time, error)
	ValidateAccessToken(ctx context.Context, token string) (string, error)
}
