package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/nashtech/survey-service/internal/api"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Signup(w http.ResponseWriter, r *http.Request)
	Verify(w http.ResponseWriter, r *http.Request)
	Signin(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service: service,
		logger:  logger,
	}
}

// Signup registers a new user. The generated verification code is returned
// in the confirmation message in lieu of email delivery.
func (h *HandlerImpl) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Signup"))

	var req SignupRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode signup request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Email and password are required")
		return
	}

	code, err := h.service.Register(ctx, req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, api.ErrConflict):
			l.WarnContext(ctx, "Signup with email already in use", slog.String("email", req.Email))
			api.ErrorResponse(w, r, http.StatusBadRequest, "Error: Email is already in use!")
		case errors.Is(err, api.ErrValidation):
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		default:
			l.ErrorContext(ctx, "Registration failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, MessageResponse{
		Message: "User registered successfully. Verification code: " + code,
	})
}

// Verify consumes a verification code; email and code come in as query
// parameters.
func (h *HandlerImpl) Verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Verify"))

	email := r.URL.Query().Get("email")
	code := r.URL.Query().Get("code")
	if email == "" || code == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Email and code are required")
		return
	}

	err := h.service.Verify(ctx, email, code)
	if err != nil {
		switch {
		case errors.Is(err, api.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Error: User not found")
		case errors.Is(err, api.ErrInvalidCode):
			l.WarnContext(ctx, "Invalid verification code", slog.String("email", email))
			api.ErrorResponse(w, r, http.StatusBadRequest, "Error: Invalid verification code")
		default:
			l.ErrorContext(ctx, "Verification failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to verify user")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, MessageResponse{Message: "User verified successfully!"})
}

// Signin authenticates the user and returns the access token alongside the
// user's identity fields.
func (h *HandlerImpl) Signin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Signin"))

	var req SigninRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode signin request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Email and password are required")
		return
	}

	resp, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, api.ErrUnauthenticated) {
			l.WarnContext(ctx, "Authentication failed", slog.String("email", req.Email))
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication failed")
			return
		}
		l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}
