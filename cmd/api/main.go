// Package main is the entrypoint for the Waxlog API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/waxlog/waxlog/internal/cache"
	"github.com/waxlog/waxlog/internal/config"
	"github.com/waxlog/waxlog/internal/handler"
	"github.com/waxlog/waxlog/internal/middleware"
	"github.com/waxlog/waxlog/internal/repository"
	"github.com/waxlog/waxlog/internal/server"
	"github.com/waxlog/waxlog/internal/session"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Initialize session store
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	sessions := session.NewManager(cacheClient, cfg.SessionTTL, cfg.SessionTouchAfter)

	// Initialize handlers
	cookieCfg := handler.CookieConfig{
		Name:   cfg.SessionCookieName,
		Secret: cfg.SessionSecret,
		MaxAge: cfg.SessionTTL,
		Secure: cfg.IsProduction(),
	}

	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	authHandler := handler.NewAuthHandler(repo, sessions, cookieCfg, logger)
	albumHandler := handler.NewAlbumHandler(repo, logger)
	reviewHandler := handler.NewReviewHandler(repo, logger)
	adminHandler := handler.NewAdminHandler(repo, logger)

	// Setup router
	r := setupRouter(h, healthHandler, authHandler, albumHandler, reviewHandler, adminHandler, repo, sessions, cfg, logger)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	albumHandler *handler.AlbumHandler,
	reviewHandler *handler.ReviewHandler,
	adminHandler *handler.AdminHandler,
	repo *repository.Repository,
	sessions *session.Manager,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestSize(cfg.MaxRequestBodySize))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Access-control gates
	authCfg := middleware.AuthConfig{
		Logger:     logger,
		Sessions:   sessions,
		Users:      repo,
		CookieName: cfg.SessionCookieName,
		Secret:     cfg.SessionSecret,
	}
	requireAuth := middleware.RequireAuth(authCfg)
	requireAdmin := middleware.RequireAdmin(authCfg)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.With(requireAuth).Post("/logout", authHandler.Logout)
	})

	r.Route("/albums", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", albumHandler.List)
		r.Post("/", albumHandler.Create)
		r.Get("/{id}", albumHandler.Get)
		r.Put("/{id}", albumHandler.Update)
		r.Delete("/{id}", albumHandler.Delete)
	})

	r.Route("/reviews", func(r chi.Router) {
		r.With(requireAuth).Get("/", reviewHandler.List)
		r.With(requireAuth).Get("/{id}", reviewHandler.Get)
		r.With(requireAdmin).Post("/", reviewHandler.Create)
		r.With(requireAdmin).Put("/{id}", reviewHandler.Update)
		r.With(requireAdmin).Delete("/{id}", reviewHandler.Delete)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(requireAdmin)
		r.Get("/users", adminHandler.ListUsers)
		r.Get("/albums", adminHandler.ListAlbums)
	})

	// Unmatched routes
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
