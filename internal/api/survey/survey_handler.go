package survey

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/nashtech/survey-service/internal/api"
	"github.com/nashtech/survey-service/internal/api/auth"
	"github.com/nashtech/survey-service/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	CreateSurveyHandler(w http.ResponseWriter, r *http.Request)
	GetUserSurveysHandler(w http.ResponseWriter, r *http.Request)
	GetSurveyHandler(w http.ResponseWriter, r *http.Request)
	UpdateSurveyHandler(w http.ResponseWriter, r *http.Request)
	DeleteSurveyHandler(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	logger  *slog.Logger
	service Service
}

func NewHandler(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:  logger,
		service: service,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

// actingUserID resolves the caller's identity from the claims the
// Authenticate middleware placed in the context. A missing or malformed id
// ends the request here.
func (h *HandlerImpl) actingUserID(w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, bool) {
	userIDStr, ok := auth.GetUserIDFromContext(r.Context())
	if !ok || userIDStr == "" {
		l.ErrorContext(r.Context(), "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		l.ErrorContext(r.Context(), "Invalid user ID format", slog.String("user_id", userIDStr), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return uuid.Nil, false
	}
	return userID, true
}

func (h *HandlerImpl) surveyIDParam(w http.ResponseWriter, r *http.Request, l *slog.Logger) (uuid.UUID, bool) {
	surveyIDStr := chi.URLParam(r, "surveyID")
	surveyID, err := uuid.Parse(surveyIDStr)
	if err != nil {
		l.WarnContext(r.Context(), "Invalid survey ID format", slog.String("survey_id", surveyIDStr), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid survey ID format")
		return uuid.Nil, false
	}
	return surveyID, true
}

// writeSurveyError translates service errors into HTTP statuses.
func writeSurveyError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, api.ErrValidation):
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, api.ErrNotFound):
		api.ErrorResponse(w, r, http.StatusNotFound, "Survey not found")
	case errors.Is(err, api.ErrForbidden):
		api.ErrorResponse(w, r, http.StatusForbidden, "Not authorized to access this survey")
	default:
		api.ErrorResponse(w, r, http.StatusInternalServerError, fallback)
	}
}

func (h *HandlerImpl) CreateSurveyHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SurveyHandler").Start(r.Context(), "CreateSurvey")
	defer span.End()
	l := h.logger.With(slog.String("handler", "CreateSurveyHandler"))

	userID, ok := h.actingUserID(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Unauthorized")
		return
	}
	span.SetAttributes(attribute.String("user.id", userID.String()))

	var req types.CreateSurveyRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	survey, err := h.service.CreateSurvey(ctx, userID, req)
	if err != nil {
		l.ErrorContext(ctx, "Service failed to create survey", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create survey")
		writeSurveyError(w, r, err, "Failed to create survey")
		return
	}

	l.InfoContext(ctx, "Survey created successfully", slog.String("survey_id", survey.ID.String()))
	span.SetAttributes(attribute.String("survey.id", survey.ID.String()))
	span.SetStatus(codes.Ok, "Survey created")
	api.WriteJSONResponse(w, r, http.StatusOK, survey)
}

func (h *HandlerImpl) GetUserSurveysHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SurveyHandler").Start(r.Context(), "GetUserSurveys")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetUserSurveysHandler"))

	userID, ok := h.actingUserID(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Unauthorized")
		return
	}
	span.SetAttributes(attribute.String("user.id", userID.String()))

	surveys, err := h.service.GetUserSurveys(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Service failed to list surveys", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list surveys")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list surveys")
		return
	}
	if surveys == nil {
		surveys = []*types.Survey{}
	}

	span.SetStatus(codes.Ok, "Surveys listed")
	api.WriteJSONResponse(w, r, http.StatusOK, surveys)
}

func (h *HandlerImpl) GetSurveyHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SurveyHandler").Start(r.Context(), "GetSurvey")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetSurveyHandler"))

	userID, ok := h.actingUserID(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Unauthorized")
		return
	}
	surveyID, ok := h.surveyIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid survey ID")
		return
	}
	span.SetAttributes(attribute.String("survey.id", surveyID.String()))

	survey, err := h.service.GetSurvey(ctx, userID, surveyID)
	if err != nil {
		l.WarnContext(ctx, "Service failed to get survey", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get survey")
		writeSurveyError(w, r, err, "Failed to get survey")
		return
	}

	span.SetStatus(codes.Ok, "Survey fetched")
	api.WriteJSONResponse(w, r, http.StatusOK, survey)
}

func (h *HandlerImpl) UpdateSurveyHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SurveyHandler").Start(r.Context(), "UpdateSurvey")
	defer span.End()
	l := h.logger.With(slog.String("handler", "UpdateSurveyHandler"))

	userID, ok := h.actingUserID(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Unauthorized")
		return
	}
	surveyID, ok := h.surveyIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid survey ID")
		return
	}
	span.SetAttributes(attribute.String("survey.id", surveyID.String()))

	var params types.UpdateSurveyParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Bad request")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	survey, err := h.service.UpdateSurvey(ctx, userID, surveyID, params)
	if err != nil {
		l.WarnContext(ctx, "Service failed to update survey", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update survey")
		writeSurveyError(w, r, err, "Failed to update survey")
		return
	}

	l.InfoContext(ctx, "Survey updated successfully", slog.String("survey_id", surveyID.String()))
	span.SetStatus(codes.Ok, "Survey updated")
	api.WriteJSONResponse(w, r, http.StatusOK, survey)
}

func (h *HandlerImpl) DeleteSurveyHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("SurveyHandler").Start(r.Context(), "DeleteSurvey")
	defer span.End()
	l := h.logger.With(slog.String("handler", "DeleteSurveyHandler"))

	userID, ok := h.actingUserID(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Unauthorized")
		return
	}
	surveyID, ok := h.surveyIDParam(w, r, l)
	if !ok {
		span.SetStatus(codes.Error, "Invalid survey ID")
		return
	}
	span.SetAttributes(attribute.String("survey.id", surveyID.String()))

	if err := h.service.DeleteSurvey(ctx, userID, surveyID); err != nil {
		l.WarnContext(ctx, "Service failed to delete survey", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete survey")
		writeSurveyError(w, r, err, "Failed to delete survey")
		return
	}

	l.InfoContext(ctx, "Survey deleted successfully", slog.String("survey_id", surveyID.String()))
	span.SetStatus(codes.Ok, "Survey deleted")
	api.WriteJSONResponse(w, r, http.StatusOK, messageResponse{Message: "Survey deleted successfully!"})
}
