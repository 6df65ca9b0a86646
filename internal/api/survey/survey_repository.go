package survey

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nashtech/survey-service/internal/api"
	"github.com/nashtech/survey-service/internal/types"
)

// Ensure RepositoryImpl implements the Repository interface
var _ Repository = (*RepositoryImpl)(nil)

// Repository defines the persistence operations for surveys. The schema_json
// column is jsonb and stored verbatim; nothing indexes into its structure.
type Repository interface {
	CreateSurvey(ctx context.Context, survey *types.Survey) error
	GetSurvey(ctx context.Context, surveyID uuid.UUID) (*types.Survey, error)
	GetSurveysByOwner(ctx context.Context, ownerID uuid.UUID) ([]*types.Survey, error)
	UpdateSurvey(ctx context.Context, survey *types.Survey) error
	DeleteSurvey(ctx context.Context, surveyID uuid.UUID) error
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

// CreateSurvey inserts a new survey into the surveys table
func (r *RepositoryImpl) CreateSurvey(ctx context.Context, survey *types.Survey) error {
	query := `
        INSERT INTO surveys (
            id, title, description, status, schema_json, created_by, created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8
        )
    `
	_, err := r.pgpool.Exec(ctx, query,
		survey.ID, survey.Title, survey.Description, survey.Status,
		survey.SchemaJSON, survey.CreatedBy, survey.CreatedAt, survey.UpdatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to create survey", slog.Any("error", err))
		return fmt.Errorf("failed to create survey: %w", err)
	}
	return nil
}

// GetSurvey retrieves a survey by its ID from the surveys table
func (r *RepositoryImpl) GetSurvey(ctx context.Context, surveyID uuid.UUID) (*types.Survey, error) {
	query := `
        SELECT id, title, description, status, schema_json, created_by, created_at, updated_at
        FROM surveys
        WHERE id = $1
    `
	row := r.pgpool.QueryRow(ctx, query, surveyID)
	var survey types.Survey
	err := row.Scan(
		&survey.ID, &survey.Title, &survey.Description, &survey.Status,
		&survey.SchemaJSON, &survey.CreatedBy, &survey.CreatedAt, &survey.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("survey not found: %w", api.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to get survey", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get survey: %w", err)
	}
	return &survey, nil
}

// GetSurveysByOwner retrieves all surveys created by a given user
func (r *RepositoryImpl) GetSurveysByOwner(ctx context.Context, ownerID uuid.UUID) ([]*types.Survey, error) {
	query := `
        SELECT id, title, description, status, schema_json, created_by, created_at, updated_at
        FROM surveys
        WHERE created_by = $1
        ORDER BY created_at
    `
	rows, err := r.pgpool.Query(ctx, query, ownerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to get surveys", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get surveys: %w", err)
	}
	defer rows.Close()

	var surveys []*types.Survey
	for rows.Next() {
		var survey types.Survey
		err := rows.Scan(
			&survey.ID, &survey.Title, &survey.Description, &survey.Status,
			&survey.SchemaJSON, &survey.CreatedBy, &survey.CreatedAt, &survey.UpdatedAt,
		)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan survey", slog.Any("error", err))
			return nil, fmt.Errorf("failed to scan survey: %w", err)
		}
		surveys = append(surveys, &survey)
	}
	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating survey rows", slog.Any("error", err))
		return nil, fmt.Errorf("error iterating survey rows: %w", err)
	}
	return surveys, nil
}

// UpdateSurvey writes the mutable fields back in a single UPDATE. created_by
// and created_at are never part of the statement.
func (r *RepositoryImpl) UpdateSurvey(ctx context.Context, survey *types.Survey) error {
	query := `
        UPDATE surveys
        SET title = $1, description = $2, status = $3, schema_json = $4, updated_at = $5
        WHERE id = $6
    `
	result, err := r.pgpool.Exec(ctx, query,
		survey.Title, survey.Description, survey.Status, survey.SchemaJSON,
		survey.UpdatedAt, survey.ID,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update survey", slog.Any("error", err))
		return fmt.Errorf("failed to update survey: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("no survey found with ID %s: %w", survey.ID, api.ErrNotFound)
	}
	return nil
}

// DeleteSurvey deletes a survey by its ID from the surveys table
func (r *RepositoryImpl) DeleteSurvey(ctx context.Context, surveyID uuid.UUID) error {
	query := `DELETE FROM surveys WHERE id = $1`
	result, err := r.pgpool.Exec(ctx, query, surveyID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete survey", slog.Any("error", err))
		return fmt.Errorf("failed to delete survey: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("no survey found with ID %s: %w", surveyID, api.ErrNotFound)
	}
	return nil
}
