package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nashtech/survey-service/internal/api"
	"github.com/nashtech/survey-service/internal/types"
)

// Ensure RepositoryImpl implements the Repository interface
var _ Repository = (*RepositoryImpl)(nil)

// Repository defines the persistence operations of the identity component.
// The users table is keyed by id with a unique index on email.
type Repository interface {
	CreateUser(ctx context.Context, user *types.User) (uuid.UUID, error)
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	MarkVerified(ctx context.Context, userID uuid.UUID) error
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool api.PGXQuerier
}

func NewRepository(db api.PGXQuerier, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: db,
	}
}

// CreateUser inserts a new, disabled user row. A duplicate email surfaces as
// api.ErrConflict via the unique index rather than a read-then-write check.
func (r *RepositoryImpl) CreateUser(ctx context.Context, user *types.User) (uuid.UUID, error) {
	query := `
        INSERT INTO users (email, password_hash, roles, verification_code, enabled)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `
	var id uuid.UUID
	err := r.pgpool.QueryRow(ctx, query,
		user.Email, user.Password, user.Roles, user.VerificationCode, user.Enabled,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return uuid.Nil, fmt.Errorf("email already registered: %w", api.ErrConflict)
		}
		r.logger.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// GetUserByEmail retrieves a user by email.
func (r *RepositoryImpl) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	query := `
        SELECT id, email, password_hash, roles, verification_code, enabled, created_at, updated_at
        FROM users
        WHERE email = $1
    `
	var user types.User
	err := r.pgpool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.Password, &user.Roles,
		&user.VerificationCode, &user.Enabled, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", api.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to get user by email", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// MarkVerified enables the account and clears the stored verification code
// in a single write.
func (r *RepositoryImpl) MarkVerified(ctx context.Context, userID uuid.UUID) error {
	query := `
        UPDATE users
        SET enabled = TRUE, verification_code = NULL, updated_at = $1
        WHERE id = $2
    `
	tag, err := r.pgpool.Exec(ctx, query, time.Now(), userID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to mark user verified", slog.Any("error", err))
		return fmt.Errorf("failed to mark user verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %w", api.ErrNotFound)
	}
	return nil
}
