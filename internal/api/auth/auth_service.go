package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nashtech/survey-service/config"
	"github.com/nashtech/survey-service/internal/api"
	"github.com/nashtech/survey-service/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service implements the sign-up / verify / sign-in flow. Accounts start
// disabled and become enabled exactly once, when the verification code is
// consumed.
type Service interface {
	Register(ctx context.Context, email, password string, roles []string) (string, error)
	Verify(ctx context.Context, email, code string) error
	Login(ctx context.Context, email, password string) (*SigninResponse, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
	cfg    *config.Config
}

func NewService(repo Repository, cfg *config.Config, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		cfg:    cfg,
	}
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// mapRoles translates requested role names into internal role constants.
// Anything unrecognized collapses to the standard user role; an empty request
// yields exactly that role.
func mapRoles(requested []string) []string {
	if len(requested) == 0 {
		return []string{types.RoleUser}
	}
	seen := make(map[string]struct{}, len(requested))
	var roles []string
	for _, role := range requested {
		mapped := types.RoleUser
		if role == "admin" {
			mapped = types.RoleAdmin
		}
		if _, ok := seen[mapped]; ok {
			continue
		}
		seen[mapped] = struct{}{}
		roles = append(roles, mapped)
	}
	return roles
}

// Register creates a disabled user and returns the generated verification
// code. Email delivery is out of scope; the code goes back to the caller.
func (s *ServiceImpl) Register(ctx context.Context, email, password string, roles []string) (string, error) {
	l := s.logger.With(slog.String("method", "Register"))

	if !emailPattern.MatchString(email) {
		return "", fmt.Errorf("%w: malformed email address", api.ErrValidation)
	}
	if len(password) < s.cfg.Auth.MinPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", api.ErrValidation, s.cfg.Auth.MinPasswordLength)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	code := uuid.NewString()
	user := &types.User{
		Email:            email,
		Password:         string(hashed),
		Roles:            mapRoles(roles),
		VerificationCode: &code,
		Enabled:          false,
	}

	userID, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return "", err
	}

	l.InfoContext(ctx, "User registered, pending verification", slog.String("user_id", userID.String()))
	return code, nil
}

// Verify enables the account when the supplied code matches the stored one.
func (s *ServiceImpl) Verify(ctx context.Context, email, code string) error {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	if user.VerificationCode == nil || *user.VerificationCode != code {
		return fmt.Errorf("verification failed: %w", api.ErrInvalidCode)
	}

	if err := s.repo.MarkVerified(ctx, user.ID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "User verified", slog.String("user_id", user.ID.String()))
	return nil
}

// Login authenticates the user and issues a signed access token asserting
// id, email and roles. Unknown email, bad password and a disabled account
// all surface as the same authentication failure.
func (s *ServiceImpl) Login(ctx context.Context, email, password string) (*SigninResponse, error) {
	l := s.logger.With(slog.String("method", "Login"))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", api.ErrUnauthenticated)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", api.ErrUnauthenticated)
	}

	if !user.Enabled {
		l.WarnContext(ctx, "Login attempt on unverified account", slog.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("account not verified: %w", api.ErrUnauthenticated)
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &SigninResponse{
		Token: token,
		ID:    user.ID.String(),
		Email: user.Email,
		Roles: user.Roles,
	}, nil
}

func (s *ServiceImpl) generateAccessToken(user *types.User) (string, error) {
	now := time.Now()
	claims := api.Claims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Roles:  user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.cfg.JWT.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.JWT.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWT.AccessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWT.SecretKey))
}
