// Package repositories определяет порты хранилища аутентификации.
package repositories

import (
	"context"

	"carmarket/internal/auth/domain/entities"
)

// UserRepository определяет операции над учетными записями.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)
	FindByID(ctx context.Context, id string) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
}
