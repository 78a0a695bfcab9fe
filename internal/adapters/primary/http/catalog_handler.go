package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/ventsite/internal/core/ports"
)

// CatalogHandler serves the public services catalog and portfolio.
type CatalogHandler struct {
	catalog      ports.CatalogService
	assets       AssetURLs
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

func NewCatalogHandler(
	catalog ports.CatalogService,
	assets AssetURLs,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		catalog:      catalog,
		assets:       assets,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "catalog"),
	}
}

func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/services", h.HandleListServices)
	r.Route("/works", func(r chi.Router) {
		r.Get("/", h.HandleListWorks)
		r.Get("/{slug}", h.HandleGetWork)
	})
}

// HandleListServices handles GET /services
func (h *CatalogHandler) HandleListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalog.ListServices(r.Context())
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	dtos := make([]ServiceDTO, 0, len(services))
	for _, s := range services {
		dtos = append(dtos, h.assets.toServiceDTO(s))
	}
	WriteList(w, dtos)
}

// HandleListWorks handles GET /works
func (h *CatalogHandler) HandleListWorks(w http.ResponseWriter, r *http.Request) {
	works, err := h.catalog.ListWorks(r.Context())
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	dtos := make([]WorkDTO, 0, len(works))
	for _, work := range works {
		dtos = append(dtos, h.assets.toWorkDTO(work))
	}
	WriteList(w, dtos)
}

// HandleGetWork handles GET /works/{slug}
func (h *CatalogHandler) HandleGetWork(w http.ResponseWriter, r *http.Request) {
	work, err := h.catalog.GetWorkBySlug(r.Context(), chi.URLParam(r, "slug"))
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	WriteJSON(w, http.StatusOK, h.assets.toWorkDTO(work))
}
