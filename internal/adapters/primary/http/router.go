package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	mw "github.com/lorrc/ventsite/internal/adapters/primary/http/middleware"
	"github.com/lorrc/ventsite/internal/auth"
)

// RouterConfig collects everything the API router mounts. Nil middleware
// and nil optional handlers are skipped.
type RouterConfig struct {
	TokenManager *auth.TokenManager

	Auth      *AuthHandler
	Catalog   *CatalogHandler
	Analytics *AnalyticsHandler
	Accounts  *AccountHandler
	WebSocket http.Handler
	Health    *HealthHandler

	// Logging and recovery, outermost first.
	Middleware []func(http.Handler) http.Handler

	AllowedOrigins []string
	CORSMaxAge     int

	RateLimit     func(http.Handler) http.Handler
	AuthRateLimit func(http.Handler) http.Handler

	MetricsPath    string
	MetricsHandler http.Handler
}

// NewRouter builds the chi router for the public site API.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	for _, m := range cfg.Middleware {
		r.Use(m)
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", mw.RequestIDHeader},
		ExposedHeaders:   []string{mw.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           cfg.CORSMaxAge,
	}))

	if cfg.Health != nil {
		cfg.Health.RegisterRoutes(r)
	}
	if cfg.MetricsHandler != nil && cfg.MetricsPath != "" {
		r.Method(http.MethodGet, cfg.MetricsPath, cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimit != nil {
			r.Use(cfg.RateLimit)
		}

		if cfg.Catalog != nil {
			cfg.Catalog.RegisterRoutes(r)
		}

		if cfg.Auth != nil {
			r.Route("/auth", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					if cfg.AuthRateLimit != nil {
						r.Use(cfg.AuthRateLimit)
					}
					cfg.Auth.RegisterPublicRoutes(r)
				})
				r.Group(func(r chi.Router) {
					r.Use(mw.JWTMiddleware(cfg.TokenManager))
					cfg.Auth.RegisterRoutes(r)
				})
			})
		}

		// Authentication is handled inside the handler
		if cfg.WebSocket != nil {
			r.Get("/ws", cfg.WebSocket.ServeHTTP)
		}

		if cfg.Analytics != nil || cfg.Accounts != nil {
			r.Route("/admin", func(r chi.Router) {
				r.Use(mw.JWTMiddleware(cfg.TokenManager))
				r.Use(mw.RequireAdmin)
				if cfg.Analytics != nil {
					r.Route("/analytics", cfg.Analytics.RegisterRoutes)
				}
				if cfg.Accounts != nil {
					r.Route("/users", cfg.Accounts.RegisterRoutes)
				}
			})
		}
	})

	return r
}
