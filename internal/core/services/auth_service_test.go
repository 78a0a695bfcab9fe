package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/ventsite/internal/core/domain"
	apperrors "github.com/lorrc/ventsite/internal/core/errors"
	"github.com/lorrc/ventsite/internal/core/mocks"
	"github.com/lorrc/ventsite/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthService_CreateAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockUserRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockUserRepo)

		mockUserRepo.On("GetByEmail", ctx, "admin@example.com").
			Return(nil, apperrors.ErrUserNotFound)

		mockUserRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Role == domain.RoleAdmin && u.IsActive && u.Email == "admin@example.com"
		})).
			Return(&domain.User{
				ID:        uuid.New(),
				FullName:  "Site Admin",
				Email:     "admin@example.com",
				Role:      domain.RoleAdmin,
				IsActive:  true,
				CreatedAt: time.Now(),
			}, nil)

		user, err := svc.CreateAdmin(ctx, " Site Admin ", "Admin@Example.com", "Password123")

		require.NoError(t, err)
		assert.Equal(t, "Site Admin", user.FullName)
		assert.Equal(t, domain.RoleAdmin, user.Role)

		mockUserRepo.AssertExpectations(t)
	})

	t.Run("user already exists", func(t *testing.T) {
		mockUserRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockUserRepo)

		mockUserRepo.On("GetByEmail", ctx, "existing@example.com").
			Return(&domain.User{ID: uuid.New(), Email: "existing@example.com"}, nil)

		user, err := svc.CreateAdmin(ctx, "User", "existing@example.com", "Password123")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperrors.ErrUserExists)
		mockUserRepo.AssertNotCalled(t, "Create")
	})

	t.Run("weak password", func(t *testing.T) {
		mockUserRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockUserRepo)

		user, err := svc.CreateAdmin(ctx, "User", "user@example.com", "weak")

		assert.Nil(t, user)
		var validationErr *apperrors.ValidationErrors
		assert.ErrorAs(t, err, &validationErr)

		mockUserRepo.AssertNotCalled(t, "GetByEmail")
		mockUserRepo.AssertNotCalled(t, "Create")
	})

	t.Run("repository failure", func(t *testing.T) {
		mockUserRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockUserRepo)

		dbErr := errors.New("connection refused")
		mockUserRepo.On("GetByEmail", ctx, "user@example.com").Return(nil, dbErr)

		user, err := svc.CreateAdmin(ctx, "User", "user@example.com", "Password123")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, dbErr)
		mockUserRepo.AssertNotCalled(t, "Create")
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := domain.HashPassword("Password123")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		mockUserRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockUserRepo)

		existingUser := &domain.User{
			ID:           uuid.New(),
			Email:        "user@example.com",
			FullName:     "Test User",
			PasswordHash: hash,
			Role:         domain.RoleAdmin,
			IsActive:     true,
		}

		mockUserRepo.On("GetByEmail", ctx, "user@example.com").Return(existingUser, nil)
		mockUserRepo.On("UpdateLastLogin", ctx, existingUser.ID, mock.AnythingOfType("time.Time")).Return(nil)

		user, err := svc.Login(ctx, "user@example.com", "Password123")

		require.NoError(t, err)
		assert.Equal(t, existingUser.ID, user.ID)
		assert.NotNil(t, user.LastLoginAt)
		mockUserRepo.AssertExpectations(t)
	})

	t.Run("last login failure does not block login", func(t *testing.T) {
		mockUserRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockUserRepo)

		existingUser := &domain.User{ID: uuid.New(), Email: "user@example.com", PasswordHash: hash, IsActive: true}

		mockUserRepo.On("GetByEmail", ctx, "user@example.com").Return(existingUser, nil)
		mockUserRepo.On("UpdateLastLogin", ctx, existingUser.ID, mock.Anything).Return(errors.New("timeout"))

		user, err := svc.Login(ctx, "user@example.com", "Password123")

		require.NoError(t, err)
		assert.Nil(t, user.LastLoginAt)
	})

	t.Run("user not found", func(t *testing.T) {
		mockUserRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockUserRepo)

		mockUserRepo.On("GetByEmail", ctx, "unknown@example.com").
			Return(nil, apperrors.ErrUserNotFound)

		user, err := svc.Login(ctx, "unknown@example.com", "Password123")

		assert.Nil(t, user)
		// Should return generic invalid credentials, not reveal user doesn't exist
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockUserRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockUserRepo)

		existingUser := &domain.User{ID: uuid.New(), Email: "user@example.com", PasswordHash: hash, IsActive: true}
		mockUserRepo.On("GetByEmail", ctx, "user@example.com").Return(existingUser, nil)

		user, err := svc.Login(ctx, "user@example.com", "WrongPassword123")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		mockUserRepo.AssertNotCalled(t, "UpdateLastLogin")
	})

	t.Run("inactive user", func(t *testing.T) {
		mockUserRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockUserRepo)

		existingUser := &domain.User{ID: uuid.New(), Email: "user@example.com", PasswordHash: hash, IsActive: false}
		mockUserRepo.On("GetByEmail", ctx, "user@example.com").Return(existingUser, nil)

		user, err := svc.Login(ctx, "user@example.com", "Password123")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("empty email", func(t *testing.T) {
		mockUserRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockUserRepo)

		user, err := svc.Login(ctx, "", "Password123")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperrors.ErrEmailRequired)
		mockUserRepo.AssertNotCalled(t, "GetByEmail")
	})

	t.Run("empty password", func(t *testing.T) {
		mockUserRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockUserRepo)

		user, err := svc.Login(ctx, "user@example.com", "")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperrors.ErrPasswordRequired)
		mockUserRepo.AssertNotCalled(t, "GetByEmail")
	})
}

func TestAuthService_GetUser(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("active", func(t *testing.T) {
		mockUserRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockUserRepo)
		mockUserRepo.On("GetByID", ctx, id).Return(&domain.User{ID: id, IsActive: true}, nil)

		user, err := svc.GetUser(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
	})

	t.Run("inactive", func(t *testing.T) {
		mockUserRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockUserRepo)
		mockUserRepo.On("GetByID", ctx, id).Return(&domain.User{ID: id}, nil)

		_, err := svc.GetUser(ctx, id)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}
