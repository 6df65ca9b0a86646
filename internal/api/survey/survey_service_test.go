package survey

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nashtech/survey-service/internal/api"
	"github.com/nashtech/survey-service/internal/types"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateSurvey(ctx context.Context, survey *types.Survey) error {
	args := m.Called(ctx, survey)
	return args.Error(0)
}

func (m *MockRepository) GetSurvey(ctx context.Context, surveyID uuid.UUID) (*types.Survey, error) {
	args := m.Called(ctx, surveyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Survey), args.Error(1)
}

func (m *MockRepository) GetSurveysByOwner(ctx context.Context, ownerID uuid.UUID) ([]*types.Survey, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*types.Survey), args.Error(1)
}

func (m *MockRepository) UpdateSurvey(ctx context.Context, survey *types.Survey) error {
	args := m.Called(ctx, survey)
	return args.Error(0)
}

func (m *MockRepository) DeleteSurvey(ctx context.Context, surveyID uuid.UUID) error {
	args := m.Called(ctx, surveyID)
	return args.Error(0)
}

// storedSurvey returns a survey row as the repository would hand it back.
func storedSurvey(ownerID uuid.UUID) *types.Survey {
	created := time.Now().Add(-time.Hour)
	return &types.Survey{
		ID:          uuid.New(),
		Title:       "Customer feedback",
		Description: "Quarterly customer feedback",
		Status:      types.SurveyStatusDraft,
		SchemaJSON:  json.RawMessage(`{"q":[1,2]}`),
		CreatedBy:   ownerID,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestCreateSurvey(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("DefaultsToDraft", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, slog.Default())

		mockRepo.On("CreateSurvey", ctx, mock.AnythingOfType("*types.Survey")).Return(nil).Once()

		survey, err := service.CreateSurvey(ctx, userID, types.CreateSurveyRequest{
			Title:      "Q1",
			SchemaJSON: json.RawMessage(`{"q":[1,2]}`),
		})

		require.NoError(t, err)
		assert.Equal(t, types.SurveyStatusDraft, survey.Status)
		assert.Equal(t, userID, survey.CreatedBy)
		assert.JSONEq(t, `{"q":[1,2]}`, string(survey.SchemaJSON))
		assert.Equal(t, survey.CreatedAt, survey.UpdatedAt)
		mockRepo.AssertExpectations(t)
	})

	t.Run("RecognizedStatusApplied", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, slog.Default())

		mockRepo.On("CreateSurvey", ctx, mock.AnythingOfType("*types.Survey")).Return(nil).Once()

		survey, err := service.CreateSurvey(ctx, userID, types.CreateSurveyRequest{
			Title:  "Q1",
			Status: "active",
		})

		require.NoError(t, err)
		assert.Equal(t, types.SurveyStatusActive, survey.Status)
		mockRepo.AssertExpectations(t)
	})

	t.Run("UnrecognizedStatusIgnored", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, slog.Default())

		mockRepo.On("CreateSurvey", ctx, mock.AnythingOfType("*types.Survey")).Return(nil).Once()

		survey, err := service.CreateSurvey(ctx, userID, types.CreateSurveyRequest{
			Title:  "Q1",
			Status: "bogus",
		})

		require.NoError(t, err)
		assert.Equal(t, types.SurveyStatusDraft, survey.Status)
		mockRepo.AssertExpectations(t)
	})

	t.Run("BlankTitle", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, slog.Default())

		_, err := service.CreateSurvey(ctx, userID, types.CreateSurveyRequest{Title: "   "})

		assert.ErrorIs(t, err, api.ErrValidation)
		mockRepo.AssertNotCalled(t, "CreateSurvey", ctx, mock.Anything)
	})
}

func TestGetSurvey(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, slog.Default())

		stored := storedSurvey(ownerID)
		mockRepo.On("GetSurvey", ctx, stored.ID).Return(stored, nil).Once()

		survey, err := service.GetSurvey(ctx, ownerID, stored.ID)

		require.NoError(t, err)
		assert.Equal(t, stored.ID, survey.ID)
		assert.JSONEq(t, `{"q":[1,2]}`, string(survey.SchemaJSON))
		mockRepo.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, slog.Default())

		surveyID := uuid.New()
		mockRepo.On("GetSurvey", ctx, surveyID).Return(nil, api.ErrNotFound).Once()

		_, err := service.GetSurvey(ctx, ownerID, surveyID)

		assert.ErrorIs(t, err, api.ErrNotFound)
		mockRepo.AssertExpectations(t)
	})

	t.Run("NotOwner", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, slog.Default())

		stored := storedSurvey(ownerID)
		mockRepo.On("GetSurvey", ctx, stored.ID).Return(stored, nil).Once()

		_, err := service.GetSurvey(ctx, uuid.New(), stored.ID)

		assert.ErrorIs(t, err, api.ErrForbidden)
		mockRepo.AssertExpectations(t)
	})
}

func TestUpdateSurvey(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("PartialFields", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, slog.Default())

		stored := storedSurvey(ownerID)
		createdAt := stored.CreatedAt
		mockRepo.On("GetSurvey", ctx, stored.ID).Return(stored, nil).Once()
		mockRepo.On("UpdateSurvey", ctx, mock.AnythingOfType("*types.Survey")).Return(nil).Once()

		newTitle := "Renamed"
		survey, err := service.UpdateSurvey(ctx, ownerID, stored.ID, types.UpdateSurveyParams{
			Title: &newTitle,
		})

		require.NoError(t, err)
		assert.Equal(t, "Renamed", survey.Title)
		assert.Equal(t, "Quarterly customer feedback", survey.Description)
		assert.JSONEq(t, `{"q":[1,2]}`, string(survey.SchemaJSON))
		assert.Equal(t, createdAt, survey.CreatedAt)
		assert.True(t, survey.UpdatedAt.After(createdAt))
		mockRepo.AssertExpectations(t)
	})

	t.Run("UnrecognizedStatusIgnored", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, slog.Default())

		stored := storedSurvey(ownerID)
		mockRepo.On("GetSurvey", ctx, stored.ID).Return(stored, nil).Once()
		mockRepo.On("UpdateSurvey", ctx, mock.AnythingOfType("*types.Survey")).Return(nil).Once()

		bogus := "bogus"
		survey, err := service.UpdateSurvey(ctx, ownerID, stored.ID, types.UpdateSurveyParams{
			Status: &bogus,
		})

		require.NoError(t, err)
		assert.Equal(t, types.SurveyStatusDraft, survey.Status)
		mockRepo.AssertExpectations(t)
	})

	t.Run("RecognizedStatusApplied", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, slog.Default())

		stored := storedSurvey(ownerID)
		mockRepo.On("GetSurvey", ctx, stored.ID).Return(stored, nil).Once()
		mockRepo.On("UpdateSurvey", ctx, mock.AnythingOfType("*types.Survey")).Return(nil).Once()

		archived := "archived"
		survey, err := service.UpdateSurvey(ctx, ownerID, stored.ID, types.UpdateSurveyParams{
			Status: &archived,
		})

		require.NoError(t, err)
		assert.Equal(t, types.SurveyStatusArchived, survey.Status)
		mockRepo.AssertExpectations(t)
	})

	t.Run("NotOwner", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, slog.Default())

		stored := storedSurvey(ownerID)
		mockRepo.On("GetSurvey", ctx, stored.ID).Return(stored, nil).Once()

		newTitle := "Renamed"
		_, err := service.UpdateSurvey(ctx, uuid.New(), stored.ID, types.UpdateSurveyParams{
			Title: &newTitle,
		})

		assert.ErrorIs(t, err, api.ErrForbidden)
		mockRepo.AssertNotCalled(t, "UpdateSurvey", ctx, mock.Anything)
		mockRepo.AssertExpectations(t)
	})
}

func TestDeleteSurvey(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, slog.Default())

		stored := storedSurvey(ownerID)
		mockRepo.On("GetSurvey", ctx, stored.ID).Return(stored, nil).Once()
		mockRepo.On("DeleteSurvey", ctx, stored.ID).Return(nil).Once()

		err := service.DeleteSurvey(ctx, ownerID, stored.ID)

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("SecondDeleteNotFound", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, slog.Default())

		stored := storedSurvey(ownerID)
		mockRepo.On("GetSurvey", ctx, stored.ID).Return(stored, nil).Once()
		mockRepo.On("DeleteSurvey", ctx, stored.ID).Return(nil).Once()
		require.NoError(t, service.DeleteSurvey(ctx, ownerID, stored.ID))

		mockRepo.On("GetSurvey", ctx, stored.ID).Return(nil, api.ErrNotFound).Once()

		err := service.DeleteSurvey(ctx, ownerID, stored.ID)

		assert.ErrorIs(t, err, api.ErrNotFound)
		mockRepo.AssertExpectations(t)
	})

	t.Run("NotOwner", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, slog.Default())

		stored := storedSurvey(ownerID)
		mockRepo.On("GetSurvey", ctx, stored.ID).Return(stored, nil).Once()

		err := service.DeleteSurvey(ctx, uuid.New(), stored.ID)

		assert.ErrorIs(t, err, api.ErrForbidden)
		mockRepo.AssertExpectations(t)
	})
}

func TestGetUserSurveys(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("ReturnsOwnSurveysOnly", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := NewService(mockRepo, slog.Default())

		own := []*types.Survey{storedSurvey(ownerID), storedSurvey(ownerID)}
		mockRepo.On("GetSurveysByOwner", ctx, ownerID).Return(own, nil).Once()

		surveys, err := service.GetUserSurveys(ctx, ownerID)

		require.NoError(t, err)
		assert.Len(t, surveys, 2)
		for _, s := range surveys {
			assert.Equal(t, ownerID, s.CreatedBy)
		}
		mockRepo.AssertExpectations(t)
	})
}
