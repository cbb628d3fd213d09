// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/techzone/backoffice/internal/admin"
	"github.com/techzone/backoffice/internal/auth"
	"github.com/techzone/backoffice/internal/cart"
	"github.com/techzone/backoffice/internal/category"
	"github.com/techzone/backoffice/internal/config"
	"github.com/techzone/backoffice/internal/core"
	"github.com/techzone/backoffice/internal/discount"
	"github.com/techzone/backoffice/internal/health"
	"github.com/techzone/backoffice/internal/middleware"
	"github.com/techzone/backoffice/internal/notify"
	"github.com/techzone/backoffice/internal/order"
	"github.com/techzone/backoffice/internal/payment"
	"github.com/techzone/backoffice/internal/payos"
	"github.com/techzone/backoffice/internal/product"
	"github.com/techzone/backoffice/internal/server"
	"github.com/techzone/backoffice/internal/statistics"
	"github.com/techzone/backoffice/internal/user"
)

const (
	apiPrefix  = "/api"
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	genKeys := flag.Bool("genkeys", false, "write a fresh ES256 key pair and exit")
	flag.Parse()

	if err := run(*configPath, *genKeys); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string, genKeys bool) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	if genKeys {
		if err := auth.GenerateKeyPair(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath); err != nil {
			return err
		}
		logger.Info("signing keys written",
			"private", cfg.JWT.PrivateKeyPath,
			"public", cfg.JWT.PublicKeyPath,
		)
		return nil
	}

	decimal.MarshalJSONWithoutQuotes = true

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		return err
	}
	if cfg.Otel.Enabled {
		logger.Info("OpenTelemetry tracer initialized",
			"endpoint", cfg.Otel.Endpoint,
		)
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.KeyID(),
	)

	mailer, err := notify.NewMailer(cfg.SMTP, logger)
	if err != nil {
		return err
	}
	notifier, err := notify.NewNotifier(mailer, cfg.Shop)
	if err != nil {
		return err
	}
	if cfg.SMTP.Host == "" {
		logger.Warn("smtp host not set, emails will only be logged")
	}

	payosClient := payos.NewClient(cfg.PayOS)
	if !payosClient.SignatureEnabled() {
		logger.Warn("payos checksum key not set, webhook signatures are not verified")
	}

	catalogCache := core.NewCache(redis.Client, cfg.Shop.ProductCacheTTL)

	userSvc := user.NewService(user.NewRepository(db.DB))
	userHandler := user.NewHandler(userSvc)

	otpStore := auth.NewOTPStore(redis.Client, cfg.Shop.OTPTTL)
	authSvc := auth.NewService(jwtManager, userSvc, otpStore, notifier, redis.Client)
	authHandler := auth.NewHandler(authSvc)

	productSvc := product.NewService(product.NewRepository(db.DB), catalogCache)
	productHandler := product.NewHandler(productSvc)

	categoryHandler := category.NewHandler(
		category.NewService(category.NewRepository(db.DB), productSvc),
	)

	cartHandler := cart.NewHandler(cart.NewService(cart.NewRepository(db.DB)))

	discountHandler := discount.NewHandler(discount.NewService(
		discount.NewRepository(db.DB),
		userSvc,
		cfg.Shop.FirstPurchaseCode,
	))

	orderSvc := order.NewService(order.NewRepository(db.DB), notifier)
	orderHandler := order.NewHandler(orderSvc)

	paymentHandler := payment.NewHandler(payment.NewService(
		payment.NewRepository(db.DB),
		orderSvc,
		payosClient,
		cfg.Shop,
	))

	statisticsHandler := statistics.NewHandler(
		statistics.NewService(statistics.NewRepository(db.DB)),
	)

	healthHandler := health.NewHandler(cfg.App.Version,
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Version:    cfg.App.Version,
		DBStats:    db.Stats,
		RedisStats: redis.Client.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		Catalog:    productSvc,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Tracing(telemetry.Tracer))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Scope: "global",
			Limit: middleware.PerWindow(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
			Exempt:   middleware.ExemptPaths(apiPrefix + payment.WebhookPath),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.JWKSHandler())

	verify := middleware.Authenticator(authSvc)
	roleLimited := middleware.RoleRateLimiter(redis.Client, middleware.DefaultRoleLimits)
	authenticator := func(next http.Handler) http.Handler {
		return verify(roleLimited(next))
	}
	backOffice := middleware.RequireBackOffice
	adminOnly := middleware.RequireAdmin

	credentialLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Scope:    "credentials",
		Limit:    middleware.PerMinute(10, 5),
		KeyFunc:  middleware.KeyByIP,
		FailOpen: true,
	}).Handler

	router.Route(apiPrefix, func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator, credentialLimiter)
		userHandler.RegisterRoutes(r, authenticator)
		categoryHandler.RegisterRoutes(r, authenticator, backOffice)
		productHandler.RegisterRoutes(r, authenticator, backOffice)
		cartHandler.RegisterRoutes(r, authenticator)
		discountHandler.RegisterRoutes(r, authenticator, backOffice)
		orderHandler.RegisterRoutes(r, authenticator, backOffice)
		paymentHandler.RegisterRoutes(r, authenticator, backOffice)
		statisticsHandler.RegisterRoutes(r, authenticator, backOffice)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown error", "error", err)
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
