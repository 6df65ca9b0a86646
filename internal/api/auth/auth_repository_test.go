package auth

import (
	"context"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nashtech/survey-service/internal/api"
	"github.com/nashtech/survey-service/internal/types"
)

func newAuthRepoTest(t *testing.T) (pgxmock.PgxPoolIface, *RepositoryImpl) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return mockPool, NewRepository(mockPool, slog.Default())
}

func TestRepositoryCreateUser(t *testing.T) {
	ctx := context.Background()

	code := uuid.NewString()
	user := &types.User{
		Email:            "new@example.com",
		Password:         "$2a$10$hash",
		Roles:            []string{types.RoleUser},
		VerificationCode: &code,
		Enabled:          false,
	}

	t.Run("Success", func(t *testing.T) {
		mockPool, repo := newAuthRepoTest(t)

		newID := uuid.New()
		mockPool.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (email, password_hash, roles, verification_code, enabled) VALUES ($1, $2, $3, $4, $5) RETURNING id`)).
			WithArgs(user.Email, user.Password, user.Roles, user.VerificationCode, user.Enabled).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(newID))

		id, err := repo.CreateUser(ctx, user)

		require.NoError(t, err)
		assert.Equal(t, newID, id)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		mockPool, repo := newAuthRepoTest(t)

		mockPool.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
			WithArgs(user.Email, user.Password, user.Roles, user.VerificationCode, user.Enabled).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

		_, err := repo.CreateUser(ctx, user)

		assert.ErrorIs(t, err, api.ErrConflict)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestRepositoryGetUserByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockPool, repo := newAuthRepoTest(t)

		userID := uuid.New()
		code := uuid.NewString()
		now := time.Now()
		rows := pgxmock.NewRows([]string{
			"id", "email", "password_hash", "roles", "verification_code", "enabled", "created_at", "updated_at",
		}).AddRow(userID, "jane@example.com", "$2a$10$hash", []string{types.RoleUser}, &code, false, now, now)

		mockPool.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, password_hash, roles, verification_code, enabled, created_at, updated_at FROM users WHERE email = $1`)).
			WithArgs("jane@example.com").
			WillReturnRows(rows)

		user, err := repo.GetUserByEmail(ctx, "jane@example.com")

		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, []string{types.RoleUser}, user.Roles)
		require.NotNil(t, user.VerificationCode)
		assert.Equal(t, code, *user.VerificationCode)
		assert.False(t, user.Enabled)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mockPool, repo := newAuthRepoTest(t)

		mockPool.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, password_hash, roles, verification_code, enabled, created_at, updated_at FROM users WHERE email = $1`)).
			WithArgs("missing@example.com").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetUserByEmail(ctx, "missing@example.com")

		assert.ErrorIs(t, err, api.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestRepositoryMarkVerified(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockPool, repo := newAuthRepoTest(t)

		userID := uuid.New()
		mockPool.ExpectExec(regexp.QuoteMeta(`UPDATE users SET enabled = TRUE, verification_code = NULL, updated_at = $1 WHERE id = $2`)).
			WithArgs(pgxmock.AnyArg(), userID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.MarkVerified(ctx, userID)

		assert.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NoRowMatched", func(t *testing.T) {
		mockPool, repo := newAuthRepoTest(t)

		userID := uuid.New()
		mockPool.ExpectExec(regexp.QuoteMeta(`UPDATE users`)).
			WithArgs(pgxmock.AnyArg(), userID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.MarkVerified(ctx, userID)

		assert.ErrorIs(t, err, api.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
