package survey

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nashtech/survey-service/internal/api"
	"github.com/nashtech/survey-service/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service owns the survey lifecycle. Every operation takes the acting user's
// id explicitly; a survey is only visible to, and mutable by, its owner.
type Service interface {
	CreateSurvey(ctx context.Context, userID uuid.UUID, req types.CreateSurveyRequest) (*types.Survey, error)
	GetUserSurveys(ctx context.Context, userID uuid.UUID) ([]*types.Survey, error)
	GetSurvey(ctx context.Context, userID, surveyID uuid.UUID) (*types.Survey, error)
	UpdateSurvey(ctx context.Context, userID, surveyID uuid.UUID, params types.UpdateSurveyParams) (*types.Survey, error)
	DeleteSurvey(ctx context.Context, userID, surveyID uuid.UUID) error
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

// CreateSurvey builds a new survey owned by the caller. Status defaults to
// DRAFT; a recognized status string in the request overrides it, anything
// else is ignored.
func (s *ServiceImpl) CreateSurvey(ctx context.Context, userID uuid.UUID, req types.CreateSurveyRequest) (*types.Survey, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be blank", api.ErrValidation)
	}

	now := time.Now()
	survey := &types.Survey{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Status:      types.SurveyStatusDraft,
		SchemaJSON:  req.SchemaJSON,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Status != "" {
		if status, ok := types.ParseSurveyStatus(req.Status); ok {
			survey.Status = status
		}
	}

	if err := s.repo.CreateSurvey(ctx, survey); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Survey created",
		slog.String("survey_id", survey.ID.String()),
		slog.String("user_id", userID.String()),
	)
	return survey, nil
}

// GetUserSurveys returns every survey owned by the caller.
func (s *ServiceImpl) GetUserSurveys(ctx context.Context, userID uuid.UUID) ([]*types.Survey, error) {
	return s.repo.GetSurveysByOwner(ctx, userID)
}

// GetSurvey returns a single survey after the ownership check.
func (s *ServiceImpl) GetSurvey(ctx context.Context, userID, surveyID uuid.UUID) (*types.Survey, error) {
	survey, err := s.repo.GetSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if survey.CreatedBy != userID {
		return nil, fmt.Errorf("survey %s is not owned by the caller: %w", surveyID, api.ErrForbidden)
	}
	return survey, nil
}

// UpdateSurvey applies partial-field semantics: only fields present in the
// request overwrite stored values. An unrecognized status string leaves the
// previous status in place rather than failing the update. UpdatedAt is
// refreshed; CreatedAt and the owner are never touched.
func (s *ServiceImpl) UpdateSurvey(ctx context.Context, userID, surveyID uuid.UUID, params types.UpdateSurveyParams) (*types.Survey, error) {
	survey, err := s.GetSurvey(ctx, userID, surveyID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		survey.Title = *params.Title
	}
	if params.Description != nil {
		survey.Description = *params.Description
	}
	if params.SchemaJSON != nil {
		survey.SchemaJSON = params.SchemaJSON
	}
	if params.Status != nil {
		if status, ok := types.ParseSurveyStatus(*params.Status); ok {
			survey.Status = status
		}
	}
	survey.UpdatedAt = time.Now()

	if err := s.repo.UpdateSurvey(ctx, survey); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Survey updated", slog.String("survey_id", surveyID.String()))
	return survey, nil
}

// DeleteSurvey removes the record permanently.
func (s *ServiceImpl) DeleteSurvey(ctx context.Context, userID, surveyID uuid.UUID) error {
	if _, err := s.GetSurvey(ctx, userID, surveyID); err != nil {
		return err
	}

	if err := s.repo.DeleteSurvey(ctx, surveyID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Survey deleted",
		slog.String("survey_id", surveyID.String()),
		slog.String("user_id", userID.String()),
	)
	return nil
}
