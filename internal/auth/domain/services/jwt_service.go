package services

import (
	"errors"
	"time"
)

// Ошибки работы с JWT.
var (
	ErrGeneratingJWTToken = errors.New("failed to generate JWT token")
	ErrInvalidJWTToken    = errors.New("invalid JWT token")
	ErrExpiredJWTToken    = errors.New("JWT token has expired")
)

// JWTConfig содержит настройки подписи токенов.
type JWTConfig struct {
	SecretKey      []byte
	AccessTokenTTL time.Duration
}

// JWTClaims представляет доменную модель claims токена.
type JWTClaims struct {
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
