package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carmarket/internal/auth/adapters/postgres"
	"carmarket/internal/auth/domain/entities"
	"carmarket/internal/auth/domain/services"
	"carmarket/pkg/logger"
)

var errDatabaseConnection = errors.New("database connection error")

func testContext(t *testing.T) context.Context {
	t.Helper()
	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	return logger.NewContext(context.Background(), testLogger)
}

func userRows(user entities.User) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "email", "password_hash", "created_at", "updated_at"}).
		AddRow(user.ID, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
}

func TestUserRepositoryFindByID(t *testing.T) {
	ctx := testContext(t)

	testUser := entities.User{
		ID:           "test-user-id",
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	t.Run("successful user acquisition", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT id, email, password_hash, created_at, updated_at").
			WithArgs(testUser.ID).
			WillReturnRows(userRows(testUser))

		repo := postgres.NewUserRepository(mock)

		user, err := repo.FindByID(ctx, testUser.ID)

		require.NoError(t, err)
		assert.Equal(t, &testUser, user)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("the user was not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT id, email, password_hash, created_at, updated_at").
			WithArgs("non-existing-id").
			WillReturnError(pgx.ErrNoRows)

		repo := postgres.NewUserRepository(mock)

		user, err := repo.FindByID(ctx, "non-existing-id")

		require.Nil(t, user)
		require.ErrorIs(t, err, entities.ErrUserNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT id, email, password_hash, created_at, updated_at").
			WithArgs(testUser.ID).
			WillReturnError(errDatabaseConnection)

		repo := postgres.NewUserRepository(mock)

		user, err := repo.FindByID(ctx, testUser.ID)

		assert.Nil(t, user)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error querying user by id")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepositoryFindByEmail(t *testing.T) {
	ctx := testContext(t)

	testUser := entities.User{
		ID:           "test-user-id",
		Email:        "test@example.com",
		PasswordHash: "hashed_password",
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
		UpdatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	t.Run("successful lookup", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT id, email, password_hash, created_at, updated_at").
			WithArgs(testUser.Email).
			WillReturnRows(userRows(testUser))

		repo := postgres.NewUserRepository(mock)

		user, err := repo.FindByEmail(ctx, testUser.Email)

		require.NoError(t, err)
		assert.Equal(t, &testUser, user)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown email", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT id, email, password_hash, created_at, updated_at").
			WithArgs("missing@example.com").
			WillReturnError(pgx.ErrNoRows)

		repo := postgres.NewUserRepository(mock)

		user, err := repo.FindByEmail(ctx, "missing@example.com")

		require.Nil(t, user)
		require.ErrorIs(t, err, entities.ErrUserNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepositoryCreate(t *testing.T) {
	ctx := testContext(t)

	newUser := &entities.User{
		Email:        "new@example.com",
		PasswordHash: "hashed_password",
	}

	t.Run("successful creation", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		created := entities.User{
			ID:           "generated-id",
			Email:        newUser.Email,
			PasswordHash: newUser.PasswordHash,
			CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
			UpdatedAt:    time.Now().UTC().Truncate(time.Microsecond),
		}

		mock.ExpectQuery("INSERT INTO users").
			WithArgs(newUser.Email, newUser.PasswordHash).
			WillReturnRows(userRows(created))

		repo := postgres.NewUserRepository(mock)

		user, err := repo.Create(ctx, newUser)

		require.NoError(t, err)
		assert.Equal(t, "generated-id", user.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email maps to domain error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("INSERT INTO users").
			WithArgs(newUser.Email, newUser.PasswordHash).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		repo := postgres.NewUserRepository(mock)

		user, err := repo.Create(ctx, newUser)

		require.Nil(t, user)
		require.ErrorIs(t, err, services.ErrEmailAlreadyExists)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
