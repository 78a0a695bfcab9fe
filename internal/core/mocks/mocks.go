package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lorrc/ventsite/internal/core/domain"
	"github.com/lorrc/ventsite/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of ports.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

// MockServiceRepository is a mock implementation of ports.ServiceRepository
type MockServiceRepository struct {
	mock.Mock
}

func NewMockServiceRepository() *MockServiceRepository {
	return &MockServiceRepository{}
}

func (m *MockServiceRepository) List(ctx context.Context) ([]*domain.Service, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Service), args.Error(1)
}

func (m *MockServiceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

func (m *MockServiceRepository) Upsert(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	args := m.Called(ctx, service)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

// MockWorkRepository is a mock implementation of ports.WorkRepository
type MockWorkRepository struct {
	mock.Mock
}

func NewMockWorkRepository() *MockWorkRepository {
	return &MockWorkRepository{}
}

func (m *MockWorkRepository) List(ctx context.Context) ([]*domain.Work, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Work), args.Error(1)
}

func (m *MockWorkRepository) GetByID(ctx context.Context, id int64) (*domain.Work, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Work), args.Error(1)
}

func (m *MockWorkRepository) Upsert(ctx context.Context, work *domain.Work) (*domain.Work, error) {
	args := m.Called(ctx, work)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Work), args.Error(1)
}

// MockTransactionManager runs the callback inline and returns its error
// unless an error is configured for WithTransaction.
type MockTransactionManager struct {
	mock.Mock
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

// MockAnalyticsSource is a mock implementation of ports.AnalyticsSource
type MockAnalyticsSource struct {
	mock.Mock
}

func NewMockAnalyticsSource() *MockAnalyticsSource {
	return &MockAnalyticsSource{}
}

func (m *MockAnalyticsSource) FetchTotals(ctx context.Context, r domain.TimeRange) (domain.TrafficTotals, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(domain.TrafficTotals), args.Error(1)
}

func (m *MockAnalyticsSource) FetchPageViews(ctx context.Context, r domain.TimeRange) ([]domain.PageViewStat, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PageViewStat), args.Error(1)
}

func (m *MockAnalyticsSource) FetchDevices(ctx context.Context, r domain.TimeRange) ([]domain.DeviceStat, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DeviceStat), args.Error(1)
}

func (m *MockAnalyticsSource) FetchBrowsers(ctx context.Context, r domain.TimeRange) ([]domain.BrowserStat, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BrowserStat), args.Error(1)
}

func (m *MockAnalyticsSource) FetchDevicePages(ctx context.Context, r domain.TimeRange) ([]domain.DevicePages, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DevicePages), args.Error(1)
}

func (m *MockAnalyticsSource) FetchHourly(ctx context.Context, r domain.TimeRange) ([]domain.HourlyCount, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HourlyCount), args.Error(1)
}

func (m *MockAnalyticsSource) FetchDaily(ctx context.Context, r domain.TimeRange) ([]domain.DailyVisit, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyVisit), args.Error(1)
}

func (m *MockAnalyticsSource) FetchOrderStats(ctx context.Context, r domain.TimeRange) (domain.OrderStats, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(domain.OrderStats), args.Error(1)
}

func (m *MockAnalyticsSource) FetchConversion(ctx context.Context) (domain.ConversionStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.ConversionStats), args.Error(1)
}

// MockAnalyticsRecorder is a mock implementation of ports.AnalyticsRecorder
type MockAnalyticsRecorder struct {
	mock.Mock
}

func NewMockAnalyticsRecorder() *MockAnalyticsRecorder {
	return &MockAnalyticsRecorder{}
}

func (m *MockAnalyticsRecorder) ObserveBuckets(stats domain.BucketStats) {
	m.Called(stats)
}

func (m *MockAnalyticsRecorder) ObserveBatch(batch string, loaded bool, elapsed time.Duration) {
	m.Called(batch, loaded, elapsed)
}

// MockEventBroadcaster is a mock implementation of ports.EventBroadcaster
type MockEventBroadcaster struct {
	mock.Mock
}

func NewMockEventBroadcaster() *MockEventBroadcaster {
	return &MockEventBroadcaster{}
}

func (m *MockEventBroadcaster) Broadcast(event domain.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockDashboardRooms is a mock implementation of ports.DashboardRooms
type MockDashboardRooms struct {
	mock.Mock
}

func NewMockDashboardRooms() *MockDashboardRooms {
	return &MockDashboardRooms{}
}

func (m *MockDashboardRooms) ActiveTimeRanges() []domain.TimeRange {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.TimeRange)
}

// MockAuthService is a mock implementation of ports.AuthService
type MockAuthService struct {
	mock.Mock
}

func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) CreateAdmin(ctx context.Context, fullName, email, password string) (*domain.User, error) {
	args := m.Called(ctx, fullName, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockCatalogService is a mock implementation of ports.CatalogService
type MockCatalogService struct {
	mock.Mock
}

func NewMockCatalogService() *MockCatalogService {
	return &MockCatalogService{}
}

func (m *MockCatalogService) ListServices(ctx context.Context) ([]*domain.Service, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Service), args.Error(1)
}

func (m *MockCatalogService) ListWorks(ctx context.Context) ([]*domain.Work, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Work), args.Error(1)
}

func (m *MockCatalogService) GetWork(ctx context.Context, id int64) (*domain.Work, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Work), args.Error(1)
}

func (m *MockCatalogService) GetWorkBySlug(ctx context.Context, slug string) (*domain.Work, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Work), args.Error(1)
}

func (m *MockCatalogService) ImportContent(ctx context.Context, principal domain.Principal, bundle ports.ContentBundle) (ports.ImportResult, error) {
	args := m.Called(ctx, principal, bundle)
	return args.Get(0).(ports.ImportResult), args.Error(1)
}

// MockAnalyticsService is a mock implementation of ports.AnalyticsService
type MockAnalyticsService struct {
	mock.Mock
}

func NewMockAnalyticsService() *MockAnalyticsService {
	return &MockAnalyticsService{}
}

func (m *MockAnalyticsService) GetDashboard(ctx context.Context, principal domain.Principal, r domain.TimeRange) (*domain.Dashboard, error) {
	args := m.Called(ctx, principal, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dashboard), args.Error(1)
}

func (m *MockAnalyticsService) GetHourlyBuckets(ctx context.Context, principal domain.Principal, r domain.TimeRange) ([]domain.HourBucket, error) {
	args := m.Called(ctx, principal, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HourBucket), args.Error(1)
}

func (m *MockAnalyticsService) GetDailyOrders(ctx context.Context, principal domain.Principal, r domain.TimeRange) ([]domain.DailyOrderRecord, error) {
	args := m.Called(ctx, principal, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyOrderRecord), args.Error(1)
}

// MockAccountService is a mock implementation of ports.AccountService
type MockAccountService struct {
	mock.Mock
}

func NewMockAccountService() *MockAccountService {
	return &MockAccountService{}
}

func (m *MockAccountService) ListUsers(ctx context.Context, principal domain.Principal) ([]*domain.User, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockAccountService) UpdateUserStatus(ctx context.Context, principal domain.Principal, userID uuid.UUID, active bool) error {
	args := m.Called(ctx, principal, userID, active)
	return args.Error(0)
}

func (m *MockAccountService) ResetUserPassword(ctx context.Context, principal domain.Principal, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, principal, userID)
	return args.String(0), args.Error(1)
}
