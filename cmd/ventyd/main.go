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

	gorilla "github.com/gorilla/handlers"
	"github.com/ventyapp/venty-auth/internal/config"
	"github.com/ventyapp/venty-auth/internal/database"
	"github.com/ventyapp/venty-auth/internal/handlers"
	"github.com/ventyapp/venty-auth/internal/oauth"
	"github.com/ventyapp/venty-auth/internal/services"
	"github.com/ventyapp/venty-auth/internal/store"
	"github.com/ventyapp/venty-auth/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var userStore store.Store
	if cfg.DatabaseURL != "" {
		db, err := database.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		userStore = store.NewPostgresStore(db)
		slog.Info("using postgres user store")
	} else {
		fs, err := store.NewFileStore(cfg.UsersFile)
		if err != nil {
			slog.Error("failed to open user store", "path", cfg.UsersFile, "error", err)
			os.Exit(1)
		}
		userStore = fs
		slog.Info("using file user store", "path", cfg.UsersFile)
	}

	sessions, err := services.NewSessionService(cfg.JWTSecret, cfg.SessionExpiry)
	if err != nil {
		slog.Error("failed to initialize sessions", "error", err)
		os.Exit(1)
	}
	users := services.NewUserService(userStore)

	authHandler := handlers.NewAuthHandler(
		cfg,
		users,
		sessions,
		oauth.NewGoogleVerifier(cfg.Google, cfg.GoogleRedirectURL()),
		oauth.NewAppleVerifier(cfg.Apple),
		oauth.NewFacebookVerifier(cfg.Facebook),
	)

	router := handlers.NewRouter(authHandler)

	handler := gorilla.RecoveryHandler()(
		gorilla.CORS(
			gorilla.AllowedOrigins(cfg.CORSOrigins),
			gorilla.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
			gorilla.AllowedHeaders([]string{"Origin", "Content-Type", "Accept"}),
			gorilla.AllowCredentials(),
		)(router),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}
