package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"carmarket/internal/auth/app"
	"carmarket/internal/auth/domain/entities"
	"carmarket/internal/auth/domain/services"
)

func TestRegister(t *testing.T) {
	testEmail := "test@example.com"
	testPassword := "password123"
	hashedPassword := "hashed_password"
	generatedUserID := "generated-user-id"

	now := time.Now()
	expiresAt := now.Add(time.Hour)
	accessToken := "access-token-123"

	createdUser := &entities.User{
		ID:           generatedUserID,
		Email:        testEmail,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	tests := []struct {
		name         string
		email        string
		password     string
		setupMocks   func(mockUserRepo *mockUserRepository, mockPasswordSvc *mockPasswordService, mockTokenSvc *mockTokenService)
		expectedErr  error
		errorContext string
	}{
		{
			name:     "Success - user registered successfully",
			email:    testEmail,
			password: testPassword,
			setupMocks: func(mockUserRepo *mockUserRepository, mockPasswordSvc *mockPasswordService, mockTokenSvc *mockTokenService) {
				mockUserRepo.On("FindByEmail", mock.Anything, testEmail).Return(nil, entities.ErrUserNotFound).Once()
				mockPasswordSvc.On("Hash", mock.Anything, testPassword).Return(hashedPassword, nil).Once()
				mockUserRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
					return u.Email == testEmail && u.PasswordHash == hashedPassword
				})).Return(createdUser, nil).Once()
				mockTokenSvc.On("GenerateAccessToken", mock.Anything, generatedUserID).
					Return(accessToken, expiresAt, nil).Once()
			},
			expectedErr: nil,
		},
		{
			name:     "Error - invalid email format",
			email:    "invalid-email",
			password: testPassword,
			setupMocks: func(mockUserRepo *mockUserRepository, mockPasswordSvc *mockPasswordService, mockTokenSvc *mockTokenService) {
			},
			expectedErr:  entities.ErrInvalidEmail,
			errorContext: "validating email",
		},
		{
			name:     "Error - password too short",
			email:    testEmail,
			password: "short",
			setupMocks: func(mockUserRepo *mockUserRepository, mockPasswordSvc *mockPasswordService, mockTokenSvc *mockTokenService) {
			},
			expectedErr:  entities.ErrPasswordTooShort,
			errorContext: "validating password",
		},
		{
			name:     "Error - email already registered",
			email:    testEmail,
			password: testPassword,
			setupMocks: func(mockUserRepo *mockUserRepository, mockPasswordSvc *mockPasswordService, mockTokenSvc *mockTokenService) {
				mockUserRepo.On("FindByEmail", mock.Anything, testEmail).Return(createdUser, nil).Once()
			},
			expectedErr:  services.ErrEmailAlreadyExists,
			errorContext: "email already registered",
		},
		{
			name:     "Error - duplicate email detected on insert",
			email:    testEmail,
			password: testPassword,
			setupMocks: func(mockUserRepo *mockUserRepository, mockPasswordSvc *mockPasswordService, mockTokenSvc *mockTokenService) {
				mockUserRepo.On("FindByEmail", mock.Anything, testEmail).Return(nil, entities.ErrUserNotFound).Once()
				mockPasswordSvc.On("Hash", mock.Anything, testPassword).Return(hashedPassword, nil).Once()
				mockUserRepo.On("Create", mock.Anything, mock.Anything).
					Return(nil, services.ErrEmailAlreadyExists).Once()
			},
			expectedErr:  services.ErrEmailAlreadyExists,
			errorContext: "email already registered",
		},
		{
			name:     "Error - database error during user check",
			email:    testEmail,
			password: testPassword,
			setupMocks: func(mockUserRepo *mockUserRepository, mockPasswordSvc *mockPasswordService, mockTokenSvc *mockTokenService) {
				mockUserRepo.On("FindByEmail", mock.Anything, testEmail).Return(nil, errors.New("database error")).Once()
			},
			expectedErr:  errors.New("database error"),
			errorContext: "checking existing user",
		},
		{
			name:     "Error - token generation failure",
			email:    testEmail,
			password: testPassword,
			setupMocks: func(mockUserRepo *mockUserRepository, mockPasswordSvc *mockPasswordService, mockTokenSvc *mockTokenService) {
				mockUserRepo.On("FindByEmail", mock.Anything, testEmail).Return(nil, entities.ErrUserNotFound).Once()
				mockPasswordSvc.On("Hash", mock.Anything, testPassword).Return(hashedPassword, nil).Once()
				mockUserRepo.On("Create", mock.Anything, mock.Anything).Return(createdUser, nil).Once()
				mockTokenSvc.On("GenerateAccessToken", mock.Anything, generatedUserID).
					Return("", time.Time{}, errors.New("token generation failed")).Once()
			},
			expectedErr:  services.ErrTokenGenerationFailed,
			errorContext: "generating token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUserRepo := new(mockUserRepository)
			mockPasswordSvc := new(mockPasswordService)
			mockTokenSvc := new(mockTokenService)

			tt.setupMocks(mockUserRepo, mockPasswordSvc, mockTokenSvc)

			authUseCase := app.NewAuthUseCase(mockUserRepo, mockPasswordSvc, mockTokenSvc)

			token, err := authUseCase.Register(context.Background(), tt.email, tt.password)

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContext)

				if errors.Is(err, entities.ErrInvalidEmail) ||
					errors.Is(err, entities.ErrPasswordTooShort) ||
					errors.Is(err, services.ErrEmailAlreadyExists) ||
					errors.Is(err, services.ErrTokenGenerationFailed) {
					assert.ErrorIs(t, err, tt.expectedErr)
				}

				assert.Nil(t, token)
			} else {
				require.NoError(t, err)
				require.NotNil(t, token)
				assert.Equal(t, generatedUserID, token.UserID)
				assert.Equal(t, accessToken, token.Token)
				assert.Equal(t, expiresAt, token.ExpiresAt)
			}

			mockUserRepo.AssertExpectations(t)
			mockPasswordSvc.AssertExpectations(t)
			mockTokenSvc.AssertExpectations(t)
		})
	}
}

func TestLogin(t *testing.T) {
	testEmail := "test@example.com"
	testPassword := "password123"
	hashedPassword := "hashed_password"
	userID := "user-id-1"

	expiresAt := time.Now().Add(time.Hour)
	accessToken := "access-token-123"

	user := &entities.User{
		ID:           userID,
		Email:        testEmail,
		PasswordHash: hashedPassword,
	}

	tests := []struct {
		name         string
		setupMocks   func(mockUserRepo *mockUserRepository, mockPasswordSvc *mockPasswordService, mockTokenSvc *mockTokenService)
		expectedErr  error
		errorContext string
	}{
		{
			name: "Success - valid credentials",
			setupMocks: func(mockUserRepo *mockUserRepository, mockPasswordSvc *mockPasswordService, mockTokenSvc *mockTokenService) {
				mockUserRepo.On("FindByEmail", mock.Anything, testEmail).Return(user, nil).Once()
				mockPasswordSvc.On("Verify", mock.Anything, testPassword, hashedPassword).Return(true, nil).Once()
				mockTokenSvc.On("GenerateAccessToken", mock.Anything, userID).
					Return(accessToken, expiresAt, nil).Once()
			},
			expectedErr: nil,
		},
		{
			name: "Error - unknown email treated as invalid credentials",
			setupMocks: func(mockUserRepo *mockUserRepository, mockPasswordSvc *mockPasswordService, mockTokenSvc *mockTokenService) {
				mockUserRepo.On("FindByEmail", mock.Anything, testEmail).Return(nil, entities.ErrUserNotFound).Once()
			},
			expectedErr:  services.ErrInvalidCredentials,
			errorContext: "invalid credentials",
		},
		{
			name: "Error - wrong password treated as invalid credentials",
			setupMocks: func(mockUserRepo *mockUserRepository, mockPasswordSvc *mockPasswordService, mockTokenSvc *mockTokenService) {
				mockUserRepo.On("FindByEmail", mock.Anything, testEmail).Return(user, nil).Once()
				mockPasswordSvc.On("Verify", mock.Anything, testPassword, hashedPassword).Return(false, nil).Once()
			},
			expectedErr:  services.ErrInvalidCredentials,
			errorContext: "invalid credentials",
		},
		{
			name: "Error - database error during lookup",
			setupMocks: func(mockUserRepo *mockUserRepository, mockPasswordSvc *mockPasswordService, mockTokenSvc *mockTokenService) {
				mockUserRepo.On("FindByEmail", mock.Anything, testEmail).Return(nil, errors.New("database error")).Once()
			},
			expectedErr:  errors.New("database error"),
			errorContext: "finding user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUserRepo := new(mockUserRepository)
			mockPasswordSvc := new(mockPasswordService)
			mockTokenSvc := new(mockTokenService)

			tt.setupMocks(mockUserRepo, mockPasswordSvc, mockTokenSvc)

			authUseCase := app.NewAuthUseCase(mockUserRepo, mockPasswordSvc, mockTokenSvc)

			token, err := authUseCase.Login(context.Background(), testEmail, testPassword)

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContext)
				if errors.Is(err, services.ErrInvalidCredentials) {
					assert.ErrorIs(t, err, tt.expectedErr)
				}
				assert.Nil(t, token)
			} else {
				require.NoError(t, err)
				require.NotNil(t, token)
				assert.Equal(t, userID, token.UserID)
				assert.Equal(t, accessToken, token.Token)
			}

			mockUserRepo.AssertExpectations(t)
			mockPasswordSvc.AssertExpectations(t)
			mockTokenSvc.AssertExpectations(t)
		})
	}
}

func TestGetProfile(t *testing.T) {
	user := &entities.User{ID: "user-id-1", Email: "test@example.com", PasswordHash: "hash"}

	mockUserRepo := new(mockUserRepository)
	mockUserRepo.On("FindByID", mock.Anything, "user-id-1").Return(user, nil).Once()
	mockUserRepo.On("FindByID", mock.Anything, "missing").Return(nil, entities.ErrUserNotFound).Once()

	userUseCase := app.NewUserUseCase(mockUserRepo)

	profile, err := userUseCase.GetProfile(context.Background(), "user-id-1")
	require.NoError(t, err)
	assert.Equal(t, user, profile)

	_, err = userUseCase.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, entities.ErrUserNotFound)

	mockUserRepo.AssertExpectations(t)
}
