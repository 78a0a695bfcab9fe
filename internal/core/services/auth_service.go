package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/ventsite/internal/core/domain"
	apperrors "github.com/lorrc/ventsite/internal/core/errors"
	"github.com/lorrc/ventsite/internal/core/ports"
)

// AuthService implements authentication business logic
type AuthService struct {
	userRepo ports.UserRepository
	logger   *slog.Logger
	now      func() time.Time
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService creates a new authentication service
func NewAuthService(userRepo ports.UserRepository) ports.AuthService {
	return NewAuthServiceWithLogger(userRepo, slog.Default())
}

// NewAuthServiceWithLogger creates an authentication service with a custom logger.
func NewAuthServiceWithLogger(userRepo ports.UserRepository, logger *slog.Logger) ports.AuthService {
	return &AuthService{
		userRepo: userRepo,
		logger:   logger.With("component", "auth_service"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateAdmin creates an active administrator account
func (s *AuthService) CreateAdmin(ctx context.Context, fullName, email, password string) (*domain.User, error) {
	params := domain.UserRegistrationParams{
		FullName: strings.TrimSpace(fullName),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: password,
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	// Check if user already exists
	_, err := s.userRepo.GetByEmail(ctx, params.Email)
	if err == nil {
		return nil, apperrors.ErrUserExists
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	user, err := domain.NewUser(params, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	return s.userRepo.Create(ctx, user)
}

// Login authenticates a user with email and password
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.ErrEmailRequired
	}
	if password == "" {
		return nil, apperrors.ErrPasswordRequired
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Don't reveal whether email exists
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive || !user.CheckPassword(password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	at := s.now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, at); err != nil {
		s.logger.WarnContext(ctx, "failed to record last login",
			"user_id", user.ID,
			"error", err,
		)
	} else {
		user.LastLoginAt = &at
	}

	return user, nil
}

// GetUser returns an active user by id
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}
