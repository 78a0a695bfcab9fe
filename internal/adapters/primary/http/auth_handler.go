package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	mw "github.com/lorrc/ventsite/internal/adapters/primary/http/middleware"
	"github.com/lorrc/ventsite/internal/adapters/primary/validation"
	"github.com/lorrc/ventsite/internal/auth"
	apperrors "github.com/lorrc/ventsite/internal/core/errors"
	"github.com/lorrc/ventsite/internal/core/ports"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("email", r.Email).
		Email("email", strings.TrimSpace(r.Email)).
		MaxLength("email", r.Email, 255)
	v.Required("password", r.Password).
		MaxLength("password", r.Password, 128)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// AuthHandler serves login and the current-user endpoint.
type AuthHandler struct {
	authService   ports.AuthService
	tokenManager  *auth.TokenManager
	loginAttempts *mw.RateLimitByKey
	errorHandler  *ErrorHandler
	logger        *slog.Logger
}

// NewAuthHandler creates a new AuthHandler. loginAttempts may be nil to
// disable per-email throttling.
func NewAuthHandler(
	authService ports.AuthService,
	tokenManager *auth.TokenManager,
	loginAttempts *mw.RateLimitByKey,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		tokenManager:  tokenManager,
		loginAttempts: loginAttempts,
		errorHandler:  errorHandler,
		logger:        logger.With("handler", "auth"),
	}
}

// RegisterPublicRoutes registers routes that need no token.
func (h *AuthHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/login", h.HandleLogin)
}

// RegisterRoutes registers routes behind JWTMiddleware.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/me", h.HandleMe)
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[LoginRequest](r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if h.loginAttempts != nil && !h.loginAttempts.Allow(email) {
		h.logger.WarnContext(r.Context(), "login throttled", "email", email)
		h.errorHandler.Handle(w, r, apperrors.NewRateLimitError())
		return
	}

	user, err := h.authService.Login(r.Context(), email, req.Password)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	token, expiresAt, err := h.tokenManager.IssueToken(user.Principal())
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewInternalError(err))
		return
	}

	h.logger.InfoContext(r.Context(), "user logged in", "user_id", user.ID, "role", user.Role)

	WriteJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      toUserDTO(user),
	})
}

// HandleMe handles GET /auth/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		h.errorHandler.Handle(w, r, apperrors.NewUnauthorizedError("Authentication required"))
		return
	}

	user, err := h.authService.GetUser(r.Context(), claims.UserID)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, toUserDTO(user))
}
