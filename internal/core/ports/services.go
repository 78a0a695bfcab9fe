package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/lorrc/ventsite/internal/core/domain"
)

// AuthService defines the port for authentication business logic.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
	CreateAdmin(ctx context.Context, fullName, email, password string) (*domain.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// AccountService defines the port for managing site accounts from the
// admin area.
type AccountService interface {
	ListUsers(ctx context.Context, principal domain.Principal) ([]*domain.User, error)
	UpdateUserStatus(ctx context.Context, principal domain.Principal, userID uuid.UUID, active bool) error
	ResetUserPassword(ctx context.Context, principal domain.Principal, userID uuid.UUID) (string, error)
}

// ContentBundle is a full set of catalog content to import.
type ContentBundle struct {
	Services []*domain.Service
	Works    []*domain.Work
}

// ImportResult counts what an import wrote.
type ImportResult struct {
	Services int
	Works    int
}

// CatalogService defines the port for the public catalog.
type CatalogService interface {
	ListServices(ctx context.Context) ([]*domain.Service, error)
	ListWorks(ctx context.Context) ([]*domain.Work, error)
	GetWork(ctx context.Context, id int64) (*domain.Work, error)
	GetWorkBySlug(ctx context.Context, slug string) (*domain.Work, error)
	ImportContent(ctx context.Context, principal domain.Principal, bundle ContentBundle) (ImportResult, error)
}

// AnalyticsService defines the port for the admin analytics dashboard.
type AnalyticsService interface {
	GetDashboard(ctx context.Context, principal domain.Principal, r domain.TimeRange) (*domain.Dashboard, error)
	GetHourlyBuckets(ctx context.Context, principal domain.Principal, r domain.TimeRange) ([]domain.HourBucket, error)
	GetDailyOrders(ctx context.Context, principal domain.Principal, r domain.TimeRange) ([]domain.DailyOrderRecord, error)
}

// DashboardPublisher pushes fresh dashboards to live subscribers.
type DashboardPublisher interface {
	Start(ctx context.Context)
	Shutdown()
}
