package http

import (
	stdhttp "net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/ventsite/internal/core/domain"
	apperrors "github.com/lorrc/ventsite/internal/core/errors"
)

func TestListAccounts(t *testing.T) {
	api := newTestAPI(t)
	token, adminID := api.token(t, domain.RoleAdmin)

	users := []*domain.User{
		{ID: adminID, FullName: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin, IsActive: true},
		{ID: uuid.New(), FullName: "Manager", Email: "m@example.com", Role: domain.RoleUser},
	}
	api.accounts.On("ListUsers", mock.Anything, domain.Principal{UserID: adminID, Role: domain.RoleAdmin}).Return(users, nil)

	rec := api.do(stdhttp.MethodGet, "/api/v1/admin/users", "", token)

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	resp := decodeBody[ListResponse[AccountDTO]](t, rec)
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "admin@example.com", resp.Data[0].Email)
	assert.True(t, resp.Data[0].IsActive)
	assert.False(t, resp.Data[1].IsActive)
}

func TestListAccounts_RequiresAdmin(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.token(t, domain.RoleUser)

	rec := api.do(stdhttp.MethodGet, "/api/v1/admin/users", "", token)

	assert.Equal(t, stdhttp.StatusForbidden, rec.Code)
	api.accounts.AssertNotCalled(t, "ListUsers", mock.Anything, mock.Anything)
}

func TestUpdateAccountStatus(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.token(t, domain.RoleAdmin)
	target := uuid.New()

	api.accounts.On("UpdateUserStatus", mock.Anything, mock.Anything, target, false).Return(nil)

	rec := api.do(stdhttp.MethodPatch, "/api/v1/admin/users/"+target.String()+"/status", `{"isActive":false}`, token)
	assert.Equal(t, stdhttp.StatusNoContent, rec.Code)

	rec = api.do(stdhttp.MethodPatch, "/api/v1/admin/users/"+target.String()+"/status", `{}`, token)
	assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)

	rec = api.do(stdhttp.MethodPatch, "/api/v1/admin/users/not-a-uuid/status", `{"isActive":true}`, token)
	assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)

	api.accounts.AssertNumberOfCalls(t, "UpdateUserStatus", 1)
}

func TestUpdateAccountStatus_Self(t *testing.T) {
	api := newTestAPI(t)
	token, adminID := api.token(t, domain.RoleAdmin)

	api.accounts.On("UpdateUserStatus", mock.Anything, mock.Anything, adminID, false).Return(apperrors.ErrForbidden)

	rec := api.do(stdhttp.MethodPatch, "/api/v1/admin/users/"+adminID.String()+"/status", `{"isActive":false}`, token)
	assert.Equal(t, stdhttp.StatusForbidden, rec.Code)
}

func TestResetAccountPassword(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.token(t, domain.RoleAdmin)
	target := uuid.New()
	missing := uuid.New()

	api.accounts.On("ResetUserPassword", mock.Anything, mock.Anything, target).Return("Xy7pQr2mTk9a", nil)
	api.accounts.On("ResetUserPassword", mock.Anything, mock.Anything, missing).Return("", apperrors.ErrUserNotFound)

	rec := api.do(stdhttp.MethodPost, "/api/v1/admin/users/"+target.String()+"/reset-password", "", token)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "Xy7pQr2mTk9a", decodeBody[ResetPasswordResponse](t, rec).TemporaryPassword)

	rec = api.do(stdhttp.MethodPost, "/api/v1/admin/users/"+missing.String()+"/reset-password", "", token)
	assert.Equal(t, stdhttp.StatusNotFound, rec.Code)
}
