package services

import (
	"context"
	"crypto/rand"
	"log/slog"
	"math/big"

	"github.com/google/uuid"
	"github.com/lorrc/ventsite/internal/core/domain"
	apperrors "github.com/lorrc/ventsite/internal/core/errors"
	"github.com/lorrc/ventsite/internal/core/ports"
)

const temporaryPasswordLength = 12

type AccountService struct {
	userRepo ports.UserRepository
	logger   *slog.Logger
}

var _ ports.AccountService = (*AccountService)(nil)

func NewAccountService(userRepo ports.UserRepository, logger *slog.Logger) ports.AccountService {
	return &AccountService{
		userRepo: userRepo,
		logger:   logger.With("component", "account_service"),
	}
}

func (s *AccountService) ListUsers(ctx context.Context, principal domain.Principal) ([]*domain.User, error) {
	if !principal.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}
	return s.userRepo.List(ctx)
}

// UpdateUserStatus activates or deactivates an account. Admins cannot
// deactivate themselves.
func (s *AccountService) UpdateUserStatus(ctx context.Context, principal domain.Principal, userID uuid.UUID, active bool) error {
	if !principal.IsAdmin() {
		return apperrors.ErrForbidden
	}
	if userID == principal.UserID && !active {
		return apperrors.ErrForbidden
	}

	if err := s.userRepo.SetActive(ctx, userID, active); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "account status changed", "target_user_id", userID, "active", active)
	return nil
}

// ResetUserPassword replaces the password with a random one and returns it
// so the admin can hand it over.
func (s *AccountService) ResetUserPassword(ctx context.Context, principal domain.Principal, userID uuid.UUID) (string, error) {
	if !principal.IsAdmin() {
		return "", apperrors.ErrForbidden
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return "", err
	}

	temporaryPassword, err := generateTemporaryPassword(temporaryPasswordLength)
	if err != nil {
		return "", err
	}

	hashedPassword, err := domain.HashPassword(temporaryPassword)
	if err != nil {
		return "", err
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "account password reset", "target_user_id", userID)
	return temporaryPassword, nil
}

// generateTemporaryPassword always includes an upper case letter, a lower
// case letter and a digit, so the result passes password validation.
func generateTemporaryPassword(length int) (string, error) {
	const upper = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	const lower = "abcdefghijkmnopqrstuvwxyz"
	const digits = "23456789"
	const all = upper + lower + digits

	if length < domain.MinPasswordLength {
		length = domain.MinPasswordLength
	}

	password := make([]byte, length)

	sets := []string{upper, lower, digits}
	for i, set := range sets {
		char, err := randomChar(set)
		if err != nil {
			return "", err
		}
		password[i] = char
	}

	for i := len(sets); i < length; i++ {
		char, err := randomChar(all)
		if err != nil {
			return "", err
		}
		password[i] = char
	}

	for i := len(password) - 1; i > 0; i-- {
		jBig, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		j := int(jBig.Int64())
		password[i], password[j] = password[j], password[i]
	}

	return string(password), nil
}

func randomChar(source string) (byte, error) {
	index, err := rand.Int(rand.Reader, big.NewInt(int64(len(source))))
	if err != nil {
		return 0, err
	}
	return source[index.Int64()], nil
}
