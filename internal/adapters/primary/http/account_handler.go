package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	mw "github.com/lorrc/ventsite/internal/adapters/primary/http/middleware"
	"github.com/lorrc/ventsite/internal/adapters/primary/validation"
	"github.com/lorrc/ventsite/internal/core/domain"
	apperrors "github.com/lorrc/ventsite/internal/core/errors"
	"github.com/lorrc/ventsite/internal/core/ports"
)

// AccountHandler manages site accounts from the admin area.
type AccountHandler struct {
	accounts     ports.AccountService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

func NewAccountHandler(accounts ports.AccountService, errorHandler *ErrorHandler, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accounts:     accounts,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "accounts"),
	}
}

func (h *AccountHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListUsers)
	r.Patch("/{userID}/status", h.HandleUpdateUserStatus)
	r.Post("/{userID}/reset-password", h.HandleResetPassword)
}

type UpdateUserStatusRequest struct {
	IsActive *bool `json:"isActive"`
}

func (r *UpdateUserStatusRequest) Validate() error {
	if r.IsActive == nil {
		errs := apperrors.NewValidationErrors()
		errs.Add("isActive", "isActive is required")
		return errs
	}
	return nil
}

// AccountDTO is the admin list representation of a user.
type AccountDTO struct {
	UserDTO
	IsActive bool `json:"isActive"`
}

type ResetPasswordResponse struct {
	TemporaryPassword string `json:"temporaryPassword"`
}

// HandleListUsers handles GET /admin/users
func (h *AccountHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	users, err := h.accounts.ListUsers(r.Context(), principal)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	response := make([]AccountDTO, 0, len(users))
	for _, user := range users {
		response = append(response, AccountDTO{UserDTO: toUserDTO(user), IsActive: user.IsActive})
	}

	WriteList(w, response)
}

// HandleUpdateUserStatus handles PATCH /admin/users/{userID}/status
func (h *AccountHandler) HandleUpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	userID, err := parseUserID(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	req, err := validation.DecodeAndValidate[UpdateUserStatusRequest](r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	err = h.accounts.UpdateUserStatus(r.Context(), principal, userID, *req.IsActive)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleResetPassword handles POST /admin/users/{userID}/reset-password
func (h *AccountHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	userID, err := parseUserID(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	temporaryPassword, err := h.accounts.ResetUserPassword(r.Context(), principal, userID)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, http.StatusOK, ResetPasswordResponse{TemporaryPassword: temporaryPassword})
}

func (h *AccountHandler) principal(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	principal, ok := mw.PrincipalFromContext(r.Context())
	if !ok {
		h.errorHandler.Handle(w, r, apperrors.NewUnauthorizedError("Authentication required"))
		return domain.Principal{}, false
	}
	return principal, true
}

func parseUserID(r *http.Request) (uuid.UUID, error) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		errs := apperrors.NewValidationErrors()
		errs.Add("userID", "Invalid user ID")
		return uuid.Nil, errs
	}
	return userID, nil
}

