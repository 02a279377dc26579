// Package entities содержит доменные сущности аутентификации.
package entities

import (
	"errors"
	"time"
)

// Ошибки домена пользователя.
var (
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrPasswordTooShort = errors.New("password must contain at least 8 characters")
	ErrUserNotFound     = errors.New("user not found")
)

// User представляет учетную запись пользователя.
// Пароль хранится только в виде одностороннего хэша.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
