package services

import "errors"

// MinPasswordLength - минимальная длина пароля.
const MinPasswordLength = 8

// Ошибки работы с паролями.
var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrHashingFailed   = errors.New("password hashing failed")
)
