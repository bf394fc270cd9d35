package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/AnthoniusHendriyanto/authkit/internal/auth/domain"
	repo "github.com/AnthoniusHendriyanto/authkit/internal/auth/repository/postgres"
	autherror "github.com/AnthoniusHendriyanto/authkit/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewRepository(mock)
	ctx := context.Background()
	columns := []string{"id", "email", "password_secret", "created_at"}

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, email, password_secret").
			WithArgs("a@b.com").
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow("user-1", "a@b.com", "Passw0rd", time.Now()))

		user, err := r.GetByEmail(ctx, "a@b.com")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "user-1", user.ID)
		assert.Equal(t, "a@b.com", user.Email)
	})

	t.Run("not found returns nil user", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, email, password_secret").
			WithArgs("ghost@b.com").
			WillReturnError(pgx.ErrNoRows)

		user, err := r.GetByEmail(ctx, "ghost@b.com")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewRepository(mock)
	columns := []string{"id", "email", "password_secret", "created_at"}

	mock.ExpectQuery("SELECT id, email, password_secret").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow("user-1", "a@b.com", "Passw0rd", time.Now()))

	user, err := r.GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "a@b.com", user.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewRepository(mock)
	ctx := context.Background()
	user := &domain.User{ID: "user-1", Email: "a@b.com", PasswordSecret: "Passw0rd", CreatedAt: time.Now()}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.PasswordSecret, user.CreatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, r.Create(ctx, user))
	})

	t.Run("duplicate email maps to conflict", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Email, user.PasswordSecret, user.CreatedAt).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := r.Create(ctx, user)
		assert.ErrorIs(t, err, autherror.ErrEmailAlreadyInUse)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokens(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewRepository(mock)
	ctx := context.Background()

	t.Run("add", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO refresh_tokens").
			WithArgs("token-1", "user-1").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, r.Add(ctx, "token-1", "user-1"))
	})

	t.Run("lookup hit", func(t *testing.T) {
		mock.ExpectQuery("SELECT user_id").
			WithArgs("token-1").
			WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow("user-1"))

		userID, ok, err := r.Lookup(ctx, "token-1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "user-1", userID)
	})

	t.Run("lookup miss", func(t *testing.T) {
		mock.ExpectQuery("SELECT user_id").
			WithArgs("never-issued").
			WillReturnError(pgx.ErrNoRows)

		_, ok, err := r.Lookup(ctx, "never-issued")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("remove", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM refresh_tokens").
			WithArgs("token-1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, r.Remove(ctx, "token-1"))
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
