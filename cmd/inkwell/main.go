// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"inkwell/internal/catalog"
	"inkwell/internal/config"
	"inkwell/internal/handler"
	"inkwell/internal/identity"
	"inkwell/internal/middleware"
	"inkwell/internal/render"
	"inkwell/internal/session"
	"inkwell/internal/store"
	"inkwell/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Inkwell - a small blogging engine\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INKWELL_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INKWELL_DB_PATH           SQLite database path (default: ./data/inkwell.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INKWELL_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INKWELL_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INKWELL_ADMIN_EMAIL       Administrator email used on first run\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INKWELL_ADMIN_PASSWORD    Administrator password used on first run\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("inkwell %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// The first account becomes the blog's administrator
	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	renderer, err := render.New(render.Config{
		TemplatesFS:    web.TemplatesFS(),
		SessionManager: sessionManager,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	// Services
	identityService := identity.NewService(db, sessionManager)
	catalogService := catalog.NewService(db)

	// Handlers
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	authHandler := handler.NewAuthHandler(identityService, renderer, loginProtection)
	blogHandler := handler.NewBlogHandler(catalogService, renderer)
	postHandler := handler.NewPostHandler(catalogService, renderer)
	staticHandler, err := handler.NewStaticHandler(web.ContentFS(), renderer)
	if err != nil {
		return fmt.Errorf("initializing static pages: %w", err)
	}

	// Router
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)

	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())))
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.LoadUser(sessionManager, db))

	// Public reading routes
	r.Get(handler.RouteRoot, blogHandler.Home)
	r.Get(handler.RoutePost, blogHandler.ShowPost)
	r.Post(handler.RoutePost, blogHandler.AddComment)
	r.Get(handler.RouteAbout, staticHandler.About)
	r.Get(handler.RouteContact, staticHandler.Contact)

	// Account routes
	r.Get(handler.RouteRegister, authHandler.RegisterForm)
	r.Post(handler.RouteRegister, authHandler.Register)
	r.Group(func(r chi.Router) {
		r.Use(loginProtection.Middleware())
		r.Get(handler.RouteLogin, authHandler.LoginForm)
		r.Post(handler.RouteLogin, authHandler.Login)
	})
	r.Get(handler.RouteLogout, authHandler.Logout)

	// Authoring routes, administrator only
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuthor())
		r.Get(handler.RouteNewPost, postHandler.NewPostForm)
		r.Post(handler.RouteNewPost, postHandler.CreatePost)
		r.Get(handler.RouteEditPost, postHandler.EditPostForm)
		r.Post(handler.RouteEditPost, postHandler.UpdatePost)
		r.Get(handler.RouteDeletePost, postHandler.DeletePost)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
