package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"carmarket/internal/auth/domain/entities"
	"carmarket/internal/auth/ports/api"
	"carmarket/internal/auth/ports/repositories"
	"carmarket/pkg/logger"
)

const (
	methodGetProfile = "GetProfile"

	msgGettingProfile  = "getting user profile"
	msgProfileNotFound = "user profile not found"
	msgErrFindProfile  = "error finding user profile"

	errCtxFindingProfile = "finding user profile"
)

// UserUseCaseImpl реализует интерфейс UserUseCase.
type UserUseCaseImpl struct {
	userRepo repositories.UserRepository
}

// NewUserUseCase создает новый экземпляр сервиса профилей.
func NewUserUseCase(userRepo repositories.UserRepository) api.UserUseCase {
	return &UserUseCaseImpl{userRepo: userRepo}
}

// GetProfile возвращает профиль пользователя по его ID.
func (u *UserUseCaseImpl) GetProfile(ctx context.Context, userID string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGetProfile), zap.String("userID", userID))
	log.Debug(ctx, msgGettingProfile)

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgProfileNotFound)
			return nil, fmt.Errorf("%s: %w", errCtxFindingProfile, entities.ErrUserNotFound)
		}
		log.Error(ctx, msgErrFindProfile, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFindingProfile, err)
	}

	return user, nil
}
