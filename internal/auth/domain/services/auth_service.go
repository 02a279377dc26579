// Package services содержит доменные типы и ошибки аутентификации.
package services

import (
	"errors"
	"time"
)

// Ошибки домена аутентификации.
var (
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrEmailAlreadyExists    = errors.New("user with this email already exists")
	ErrTokenGenerationFailed = errors.New("failed to generate authentication token")
)

// AuthToken представляет выданный токен доступа.
type AuthToken struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
}
