// Package api определяет интерфейсы сценариев использования аутентификации.
package api

import (
	"context"

	"carmarket/internal/auth/domain/entities"
	"carmarket/internal/auth/domain/services"
)

// AuthUseCase определяет сценарии регистрации и входа.
type AuthUseCase interface {
	Register(ctx context.Context, email, password string) (*services.AuthToken, error)
	Login(ctx context.Context, email, password string) (*services.AuthToken, error)
}

// UserUseCase определяет сценарии работы с профилем пользователя.
type UserUseCase interface {
	GetProfile(ctx context.Context, userID string) (*entities.User, error)
}
