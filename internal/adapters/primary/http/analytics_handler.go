package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	mw "github.com/lorrc/ventsite/internal/adapters/primary/http/middleware"
	"github.com/lorrc/ventsite/internal/adapters/primary/validation"
	"github.com/lorrc/ventsite/internal/core/domain"
	apperrors "github.com/lorrc/ventsite/internal/core/errors"
	"github.com/lorrc/ventsite/internal/core/ports"
)

// AnalyticsHandler serves the admin analytics dashboard.
type AnalyticsHandler struct {
	analytics    ports.AnalyticsService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

func NewAnalyticsHandler(analytics ports.AnalyticsService, errorHandler *ErrorHandler, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics:    analytics,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "analytics"),
	}
}

// RegisterRoutes registers the /admin/analytics routes. They expect
// JWTMiddleware to have run.
func (h *AnalyticsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleDashboard)
	r.Get("/hourly", h.HandleHourly)
	r.Get("/orders/daily", h.HandleDailyOrders)
}

// HandleDashboard handles GET /admin/analytics?timeRange=
func (h *AnalyticsHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	principal, timeRange, ok := h.parse(w, r)
	if !ok {
		return
	}

	dashboard, err := h.analytics.GetDashboard(r.Context(), principal, timeRange)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, dashboard)
}

// HandleHourly handles GET /admin/analytics/hourly?timeRange=
func (h *AnalyticsHandler) HandleHourly(w http.ResponseWriter, r *http.Request) {
	principal, timeRange, ok := h.parse(w, r)
	if !ok {
		return
	}

	buckets, err := h.analytics.GetHourlyBuckets(r.Context(), principal, timeRange)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteList(w, buckets)
}

// HandleDailyOrders handles GET /admin/analytics/orders/daily?timeRange=
func (h *AnalyticsHandler) HandleDailyOrders(w http.ResponseWriter, r *http.Request) {
	principal, timeRange, ok := h.parse(w, r)
	if !ok {
		return
	}

	records, err := h.analytics.GetDailyOrders(r.Context(), principal, timeRange)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteList(w, records)
}

func (h *AnalyticsHandler) parse(w http.ResponseWriter, r *http.Request) (domain.Principal, domain.TimeRange, bool) {
	principal, ok := mw.PrincipalFromContext(r.Context())
	if !ok {
		h.errorHandler.Handle(w, r, apperrors.NewUnauthorizedError("Authentication required"))
		return domain.Principal{}, "", false
	}

	timeRange, err := domain.ParseTimeRange(validation.TimeRangeParam(r))
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return domain.Principal{}, "", false
	}

	return principal, timeRange, true
}
