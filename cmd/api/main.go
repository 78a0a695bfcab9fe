package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/jackc/pgx/v5/pgxpool"

	httpAdapter "github.com/lorrc/ventsite/internal/adapters/primary/http"
	mw "github.com/lorrc/ventsite/internal/adapters/primary/http/middleware"
	"github.com/lorrc/ventsite/internal/adapters/primary/websocket"
	"github.com/lorrc/ventsite/internal/adapters/secondary/postgres"
	"github.com/lorrc/ventsite/internal/adapters/secondary/upstream"
	"github.com/lorrc/ventsite/internal/auth"
	"github.com/lorrc/ventsite/internal/config"
	"github.com/lorrc/ventsite/internal/core/services"
	"github.com/lorrc/ventsite/internal/infrastructure/logging"
	"github.com/lorrc/ventsite/internal/infrastructure/metrics"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})
	slog.SetDefault(logger)

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"config", cfg.String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Initialize Database Pool
	pool, err := openPool(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("database connection established")

	// 4. Metrics, Security & Real-time Components
	m := metrics.New()
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)

	hub := websocket.NewHub(logger, m.WebSocketClients)
	go hub.Run(ctx)

	// 5. Initialize Rate Limiters
	var generalRateLimiter, authRateLimiter *mw.RateLimiter
	var loginAttempts *mw.RateLimitByKey
	if cfg.RateLimit.Enabled {
		generalRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})
		defer generalRateLimiter.Stop()

		authRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.AuthRPS,
			BurstSize:         cfg.RateLimit.AuthBurst,
			CleanupInterval:   time.Minute,
			TTL:               5 * time.Minute,
		})
		defer authRateLimiter.Stop()

		loginAttempts = mw.NewRateLimitByKey(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.AuthRPS,
			BurstSize:         cfg.RateLimit.AuthBurst,
			CleanupInterval:   time.Minute,
			TTL:               15 * time.Minute,
		})
		defer loginAttempts.Stop()
	}

	// 6. Dependency Injection (Wiring the Hexagon)
	errorHandler := httpAdapter.NewErrorHandler(logger)

	// Secondary adapters
	userRepo := postgres.NewUserRepository(pool)
	serviceRepo := postgres.NewServiceRepository(pool)
	workRepo := postgres.NewWorkRepository(pool)
	txManager := postgres.NewTransactionManager(pool)

	analyticsAPI := upstream.NewClient(upstream.Config{
		BaseURL:           cfg.Upstream.BaseURL,
		Token:             cfg.Upstream.Token,
		Timeout:           cfg.Upstream.Timeout,
		RequestsPerSecond: cfg.Upstream.RequestsPerSecond,
		Burst:             cfg.Upstream.Burst,
	}, m, logger)

	// Services (Core)
	authService := services.NewAuthServiceWithLogger(userRepo, logger)
	catalogService := services.NewCatalogService(serviceRepo, workRepo, txManager)
	accountService := services.NewAccountService(userRepo, logger)
	analyticsService := services.NewAnalyticsService(
		analyticsAPI,
		m,
		services.ClockIn(cfg.Analytics.Location),
		logger,
	)

	var publisher *services.DashboardPublisher
	if cfg.Analytics.PushEnabled {
		publisher = services.NewDashboardPublisher(analyticsService, hub, hub, cfg.Analytics.PushInterval, logger)
		publisher.Start(ctx)
	}

	// Handlers (Primary Adapters)
	authHandler := httpAdapter.NewAuthHandler(authService, tokenManager, loginAttempts, errorHandler, logger)
	catalogHandler := httpAdapter.NewCatalogHandler(
		catalogService,
		httpAdapter.NewAssetURLs(cfg.Content.UploadsBaseURL),
		errorHandler,
		logger,
	)
	analyticsHandler := httpAdapter.NewAnalyticsHandler(analyticsService, errorHandler, logger)
	accountHandler := httpAdapter.NewAccountHandler(accountService, errorHandler, logger)
	wsHandler := httpAdapter.NewWebSocketHandler(hub, tokenManager, cfg, logger)
	healthHandler := httpAdapter.NewHealthHandler(pool, analyticsAPI, cfg.App.Version)

	// 7. Setup Router
	routerCfg := httpAdapter.RouterConfig{
		TokenManager: tokenManager,
		Auth:         authHandler,
		Catalog:      catalogHandler,
		Analytics:    analyticsHandler,
		Accounts:     accountHandler,
		WebSocket:    wsHandler,
		Health:       healthHandler,
		Middleware: []func(http.Handler) http.Handler{
			mw.RequestLogger(logger),
			mw.RecoveryLogger(logger),
		},
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		CORSMaxAge:     cfg.CORS.MaxAge,
	}
	if cfg.Metrics.Enabled {
		routerCfg.Middleware = append(routerCfg.Middleware, m.Middleware)
		routerCfg.MetricsPath = cfg.Metrics.Path
		routerCfg.MetricsHandler = m.Handler()
	}
	if generalRateLimiter != nil {
		routerCfg.RateLimit = generalRateLimiter.Middleware
		routerCfg.AuthRateLimit = authRateLimiter.Middleware
	}

	// 8. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		logger.Error("server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if publisher != nil {
		publisher.Shutdown()
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	stop()
	select {
	case <-hub.Done():
	case <-shutdownCtx.Done():
		logger.Warn("websocket hub did not stop before the shutdown deadline")
	}

	logger.Info("server shutdown complete")
}

func openPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
