package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	mw "github.com/lorrc/ventsite/internal/adapters/primary/http/middleware"
	"github.com/lorrc/ventsite/internal/auth"
	"github.com/lorrc/ventsite/internal/core/domain"
	apperrors "github.com/lorrc/ventsite/internal/core/errors"
	"github.com/lorrc/ventsite/internal/core/mocks"
)

type testAPI struct {
	router    chi.Router
	tm        *auth.TokenManager
	authSvc   *mocks.MockAuthService
	catalog   *mocks.MockCatalogService
	analytics *mocks.MockAnalyticsService
	accounts  *mocks.MockAccountService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	errorHandler := NewErrorHandler(logger)
	tm := auth.NewTokenManager("test-secret", time.Hour)

	api := &testAPI{
		tm:        tm,
		authSvc:   mocks.NewMockAuthService(),
		catalog:   mocks.NewMockCatalogService(),
		analytics: mocks.NewMockAnalyticsService(),
		accounts:  mocks.NewMockAccountService(),
	}

	loginAttempts := mw.NewRateLimitByKey(mw.RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 3, TTL: time.Minute})
	t.Cleanup(loginAttempts.Stop)

	api.router = NewRouter(RouterConfig{
		TokenManager:   tm,
		Auth:           NewAuthHandler(api.authSvc, tm, loginAttempts, errorHandler, logger),
		Catalog:        NewCatalogHandler(api.catalog, NewAssetURLs("https://cdn.example.com/"), errorHandler, logger),
		Analytics:      NewAnalyticsHandler(api.analytics, errorHandler, logger),
		Accounts:       NewAccountHandler(api.accounts, errorHandler, logger),
		AllowedOrigins: []string{"http://localhost:3000"},
	})

	return api
}

func (a *testAPI) token(t *testing.T, role domain.Role) (string, uuid.UUID) {
	t.Helper()
	id := uuid.New()
	token, err := a.tm.GenerateToken(domain.Principal{UserID: id, Role: role})
	require.NoError(t, err)
	return token, id
}

func (a *testAPI) do(method, target, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestListServices(t *testing.T) {
	api := newTestAPI(t)
	api.catalog.On("ListServices", mock.Anything).Return([]*domain.Service{
		{ID: 1, Name: "Монтаж", Description: `["a","b"]`, Image: "/uploads/1.jpg"},
		{ID: 2, Name: "Сервис", Description: "plain", Image: ""},
	}, nil)

	rec := api.do(stdhttp.MethodGet, "/api/v1/services", "", "")

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	resp := decodeBody[ListResponse[ServiceDTO]](t, rec)
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, []string{"a", "b"}, resp.Data[0].DescriptionItems)
	assert.Equal(t, "https://cdn.example.com/uploads/1.jpg", resp.Data[0].ImageURL)
	assert.Equal(t, []string{"plain"}, resp.Data[1].DescriptionItems)
	assert.Empty(t, resp.Data[1].ImageURL)
}

func TestListWorks(t *testing.T) {
	api := newTestAPI(t)
	api.catalog.On("ListWorks", mock.Anything).Return([]*domain.Work{
		{ID: 42, Title: "Монтаж вентиляции", Images: []string{"/uploads/a.jpg", "https://img.example.com/b.jpg"}},
	}, nil)

	rec := api.do(stdhttp.MethodGet, "/api/v1/works", "", "")

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	resp := decodeBody[ListResponse[WorkDTO]](t, rec)
	require.Len(t, resp.Data, 1)
	work := resp.Data[0]
	assert.Equal(t, "montazh-ventilyatsii-42", work.Slug)
	assert.Equal(t, []string{"https://cdn.example.com/uploads/a.jpg", "https://img.example.com/b.jpg"}, work.ImageURLs)
	assert.NotNil(t, work.SuccessWork)
}

func TestGetWork(t *testing.T) {
	api := newTestAPI(t)
	api.catalog.On("GetWorkBySlug", mock.Anything, "montazh-42").
		Return(&domain.Work{ID: 42, Title: "Монтаж"}, nil)
	api.catalog.On("GetWorkBySlug", mock.Anything, "abc").
		Return(nil, apperrors.ErrWorkNotFound)

	rec := api.do(stdhttp.MethodGet, "/api/v1/works/montazh-42", "", "")
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, int64(42), decodeBody[WorkDTO](t, rec).ID)

	rec = api.do(stdhttp.MethodGet, "/api/v1/works/abc", "", "")
	require.Equal(t, stdhttp.StatusNotFound, rec.Code)
	assert.Equal(t, "WORK_NOT_FOUND", decodeBody[ErrorResponse](t, rec).Code)
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)
	user := &domain.User{ID: uuid.New(), FullName: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin, IsActive: true}
	api.authSvc.On("Login", mock.Anything, "admin@example.com", "Password1").Return(user, nil)

	rec := api.do(stdhttp.MethodPost, "/api/v1/auth/login", `{"email":" Admin@Example.com ","password":"Password1"}`, "")

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	resp := decodeBody[LoginResponse](t, rec)
	assert.Equal(t, "admin@example.com", resp.User.Email)
	assert.Equal(t, "ADMIN", resp.User.Role)
	assert.True(t, resp.ExpiresAt.After(time.Now()))

	claims, err := api.tm.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestLogin_Failures(t *testing.T) {
	api := newTestAPI(t)
	api.authSvc.On("Login", mock.Anything, "user@example.com", "wrong").
		Return(nil, apperrors.ErrInvalidCredentials)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"bad credentials", `{"email":"user@example.com","password":"wrong"}`, stdhttp.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"malformed json", `{"email":`, stdhttp.StatusBadRequest, "BAD_REQUEST"},
		{"empty body", ``, stdhttp.StatusBadRequest, "BAD_REQUEST"},
		{"missing fields", `{}`, stdhttp.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"invalid email", `{"email":"nope","password":"x"}`, stdhttp.StatusUnprocessableEntity, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(stdhttp.MethodPost, "/api/v1/auth/login", tt.body, "")
			require.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeBody[ErrorResponse](t, rec).Code)
		})
	}
}

func TestLogin_ThrottledPerEmail(t *testing.T) {
	api := newTestAPI(t)
	api.authSvc.On("Login", mock.Anything, "victim@example.com", mock.Anything).
		Return(nil, apperrors.ErrInvalidCredentials)

	body := `{"email":"victim@example.com","password":"guess"}`
	for i := 0; i < 3; i++ {
		rec := api.do(stdhttp.MethodPost, "/api/v1/auth/login", body, "")
		require.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
	}

	rec := api.do(stdhttp.MethodPost, "/api/v1/auth/login", body, "")
	require.Equal(t, stdhttp.StatusTooManyRequests, rec.Code)
	api.authSvc.AssertNumberOfCalls(t, "Login", 3)
}

func TestMe(t *testing.T) {
	api := newTestAPI(t)
	token, id := api.token(t, domain.RoleUser)
	api.authSvc.On("GetUser", mock.Anything, id).
		Return(&domain.User{ID: id, FullName: "User", Email: "u@example.com", Role: domain.RoleUser}, nil)

	rec := api.do(stdhttp.MethodGet, "/api/v1/auth/me", "", token)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, id.String(), decodeBody[UserDTO](t, rec).ID)

	rec = api.do(stdhttp.MethodGet, "/api/v1/auth/me", "", "")
	assert.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
}

func TestDashboard(t *testing.T) {
	api := newTestAPI(t)
	token, id := api.token(t, domain.RoleAdmin)
	principal := domain.Principal{UserID: id, Role: domain.RoleAdmin}

	dashboard := &domain.Dashboard{
		TimeRange:    domain.RangeMonth,
		Traffic:      &domain.TrafficReport{Totals: domain.TrafficTotals{TotalPageviews: 7}},
		TrafficState: domain.BatchState{Loaded: true},
		OrdersState:  domain.BatchState{Loaded: false, Error: "failed to load order statistics"},
	}
	api.analytics.On("GetDashboard", mock.Anything, principal, domain.RangeMonth).Return(dashboard, nil)

	rec := api.do(stdhttp.MethodGet, "/api/v1/admin/analytics?timeRange=month", "", token)

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "month", body["timeRange"])
	assert.Nil(t, body["orders"])
	assert.Equal(t, map[string]any{"loaded": false, "error": "failed to load order statistics"}, body["ordersState"])
	traffic := body["traffic"].(map[string]any)
	assert.Equal(t, float64(7), traffic["totals"].(map[string]any)["totalPageviews"])
}

func TestDashboard_DefaultRangeAndErrors(t *testing.T) {
	api := newTestAPI(t)
	adminToken, adminID := api.token(t, domain.RoleAdmin)
	userToken, _ := api.token(t, domain.RoleUser)

	api.analytics.On("GetDashboard", mock.Anything, domain.Principal{UserID: adminID, Role: domain.RoleAdmin}, domain.RangeWeek).
		Return(&domain.Dashboard{TimeRange: domain.RangeWeek}, nil)

	rec := api.do(stdhttp.MethodGet, "/api/v1/admin/analytics", "", adminToken)
	assert.Equal(t, stdhttp.StatusOK, rec.Code)

	rec = api.do(stdhttp.MethodGet, "/api/v1/admin/analytics?timeRange=year", "", adminToken)
	require.Equal(t, stdhttp.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_TIME_RANGE", decodeBody[ErrorResponse](t, rec).Code)

	rec = api.do(stdhttp.MethodGet, "/api/v1/admin/analytics", "", userToken)
	assert.Equal(t, stdhttp.StatusForbidden, rec.Code)

	rec = api.do(stdhttp.MethodGet, "/api/v1/admin/analytics", "", "")
	assert.Equal(t, stdhttp.StatusUnauthorized, rec.Code)

	api.analytics.AssertNumberOfCalls(t, "GetDashboard", 1)
}

func TestHourlyAndDailyOrders(t *testing.T) {
	api := newTestAPI(t)
	token, id := api.token(t, domain.RoleAdmin)
	principal := domain.Principal{UserID: id, Role: domain.RoleAdmin}

	buckets := make([]domain.HourBucket, domain.HourWindow)
	api.analytics.On("GetHourlyBuckets", mock.Anything, principal, domain.RangeToday).Return(buckets, nil)
	api.analytics.On("GetDailyOrders", mock.Anything, principal, domain.RangeAll).
		Return(nil, apperrors.NewUpstreamError(errors.New("connection refused"), "orders"))

	rec := api.do(stdhttp.MethodGet, "/api/v1/admin/analytics/hourly?timeRange=today", "", token)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, domain.HourWindow, decodeBody[ListResponse[domain.HourBucket]](t, rec).Count)

	rec = api.do(stdhttp.MethodGet, "/api/v1/admin/analytics/orders/daily?timeRange=all", "", token)
	require.Equal(t, stdhttp.StatusBadGateway, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", resp.Code)
	assert.NotContains(t, resp.Error, "connection refused")
}

func TestCORSPreflight(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(stdhttp.MethodOptions, "/api/v1/services", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", stdhttp.MethodGet)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAssetURLs_Resolve(t *testing.T) {
	assets := NewAssetURLs("http://localhost:3001/")

	assert.Equal(t, "http://localhost:3001/uploads/x.png", assets.Resolve("/uploads/x.png"))
	assert.Equal(t, "http://localhost:3001/uploads/x.png", assets.Resolve("uploads/x.png"))
	assert.Equal(t, "https://cdn.example.com/x.png", assets.Resolve("https://cdn.example.com/x.png"))
	assert.Equal(t, "", assets.Resolve(""))
	assert.Equal(t, "/x.png", NewAssetURLs("").Resolve("/x.png"))
}

func TestHandlers_MissingPrincipal(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	errorHandler := NewErrorHandler(logger)

	handlers := map[string]stdhttp.HandlerFunc{
		"dashboard": NewAnalyticsHandler(mocks.NewMockAnalyticsService(), errorHandler, logger).HandleDashboard,
		"accounts":  NewAccountHandler(mocks.NewMockAccountService(), errorHandler, logger).HandleListUsers,
		"me":        NewAuthHandler(mocks.NewMockAuthService(), auth.NewTokenManager("test-secret", time.Hour), nil, errorHandler, logger).HandleMe,
	}

	for name, handle := range handlers {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handle(rec, httptest.NewRequest(stdhttp.MethodGet, "/", nil))

			require.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, "UNAUTHORIZED", body.Code)
			assert.Equal(t, "Authentication required", body.Error)
		})
	}
}
