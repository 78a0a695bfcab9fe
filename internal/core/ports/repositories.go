package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/ventsite/internal/core/domain"
)

// UserRepository defines persistence for site users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	List(ctx context.Context) ([]*domain.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// ServiceRepository defines persistence for the services catalog.
type ServiceRepository interface {
	List(ctx context.Context) ([]*domain.Service, error)
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	// Upsert inserts the service, or replaces the one with the same name.
	Upsert(ctx context.Context, service *domain.Service) (*domain.Service, error)
}

// WorkRepository defines persistence for the portfolio.
type WorkRepository interface {
	List(ctx context.Context) ([]*domain.Work, error)
	GetByID(ctx context.Context, id int64) (*domain.Work, error)
	// Upsert inserts the work, or replaces the one with the same title.
	Upsert(ctx context.Context, work *domain.Work) (*domain.Work, error)
}

// TransactionManager defines the port for running atomic operations.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
