package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mwhayford/rental-service/internal/auth"
	"github.com/mwhayford/rental-service/internal/config"
	"github.com/mwhayford/rental-service/internal/domain"
	"github.com/mwhayford/rental-service/internal/repository"
	apperrors "github.com/mwhayford/rental-service/pkg/util/errorutil"
)

// AuthService handles registration and login.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
	cfg    config.AuthConfig
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:  users,
		tokens: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		cfg:    cfg,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// RegisterInput describes a registration payload.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     domain.UserRole
}

// Register creates an account. Admin accounts cannot self-register.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	email, err := domain.NewEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	if input.Role == "" {
		input.Role = domain.RoleResident
	}
	if input.Role == domain.RoleAdmin || !domain.ValidRole(input.Role) {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}

	if _, err := s.users.GetByEmail(ctx, email.String()); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FullName:     input.FullName,
		Role:         input.Role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// LoginResult carries a signed token and its expiry.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Login verifies credentials and issues a JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.NewForbidden("account disabled")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}
