package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/we4us/platform/pkg/common/models"
	"github.com/we4us/platform/pkg/gateway/auth"
	"github.com/we4us/platform/pkg/observability/metrics"
	"github.com/we4us/platform/pkg/users"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("an account with this email already exists")
	ErrMagicLinkInvalid   = errors.New("invalid or expired magic link")
)

const minPasswordLength = 8

// magicLinkMessage never reveals whether the email is registered.
const magicLinkMessage = "If an account exists with this email, a magic link has been sent"

type Service struct {
	users *users.Service
	jwt   *auth.JWTManager
}

func NewService(userService *users.Service, jwtManager *auth.JWTManager) *Service {
	return &Service{users: userService, jwt: jwtManager}
}

func (s *Service) Signup(ctx context.Context, req models.SignupRequest) (models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return models.AuthResponse{}, fmt.Errorf("valid email required")
	}
	if len(req.Password) < minPasswordLength {
		return models.AuthResponse{}, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if req.UserType != "patient" && req.UserType != "caregiver" {
		return models.AuthResponse{}, fmt.Errorf("userType must be patient or caregiver")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.AuthResponse{}, err
	}

	user, err := s.users.Create(ctx, email, req.UserType, string(hash))
	if err != nil {
		if errors.Is(err, users.ErrEmailAlreadyExists) {
			return models.AuthResponse{}, ErrEmailExists
		}
		return models.AuthResponse{}, err
	}

	metrics.IncSignups()
	return s.authResponse(user)
}

func (s *Service) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return models.AuthResponse{}, ErrInvalidCredentials
		}
		return models.AuthResponse{}, err
	}
	if user.PasswordHash == "" || req.Password == "" {
		return models.AuthResponse{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return models.AuthResponse{}, ErrInvalidCredentials
	}

	_ = s.users.TouchLastLogin(ctx, user.ID)
	return s.authResponse(user)
}

// RequestMagicLink accepts the request without revealing whether the account
// exists. Email delivery is not wired up yet.
func (s *Service) RequestMagicLink(ctx context.Context, email string) string {
	_, _ = s.users.FindByEmail(ctx, email)
	return magicLinkMessage
}

// VerifyMagicLink always rejects until link issuance exists.
func (s *Service) VerifyMagicLink(ctx context.Context, token string) error {
	return ErrMagicLinkInvalid
}

func (s *Service) CurrentUser(ctx context.Context, userID uuid.UUID) (models.UserSummary, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return models.UserSummary{}, err
	}
	return s.users.Sanitize(user), nil
}

func (s *Service) authResponse(user *users.User) (models.AuthResponse, error) {
	token, err := s.jwt.IssueToken(user.ID, user.Email, user.UserType)
	if err != nil {
		return models.AuthResponse{}, err
	}
	return models.AuthResponse{
		AccessToken: token,
		ExpiresIn:   s.jwt.TTL().String(),
		User:        s.users.Sanitize(user),
	}, nil
}
