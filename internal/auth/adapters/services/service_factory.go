package services

import (
	"time"

	svc "carmarket/internal/auth/ports/services"
)

// ServiceFactory создает вспомогательные сервисы аутентификации.
type ServiceFactory struct {
	secretKey      string
	accessTokenTTL time.Duration
	bcryptCost     int
}

// NewServiceFactory создает новую фабрику сервисов.
func NewServiceFactory(secretKey string, accessTokenTTL time.Duration, bcryptCost int) *ServiceFactory {
	return &ServiceFactory{
		secretKey:      secretKey,
		accessTokenTTL: accessTokenTTL,
		bcryptCost:     bcryptCost,
	}
}

// PasswordService возвращает сервис работы с паролями.
func (f *ServiceFactory) PasswordService() svc.PasswordService {
	return NewBcrypt(f.bcryptCost)
}

// TokenService возвращает сервис работы с токенами.
func (f *ServiceFactory) TokenService() svc.TokenService {
	return NewJWT(f.secretKey, f.accessTokenTTL)
}
