// Package dto содержит структуры запросов и ответов HTTP API.
package dto

import (
	"time"

	"carmarket/internal/auth/domain/entities"
)

// RegisterRequest - запрос на регистрацию.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest - запрос на вход.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse - ответ с выданным токеном.
type TokenResponse struct {
	Token string `json:"token"`
}

// ProfileResponse - профиль пользователя без хэша пароля.
type ProfileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewProfileResponse преобразует доменную сущность в ответ API.
func NewProfileResponse(user *entities.User) *ProfileResponse {
	return &ProfileResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
