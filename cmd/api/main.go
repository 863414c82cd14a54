package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/classiflow/classiflow-go/internal/config"
	"github.com/classiflow/classiflow-go/internal/crypto"
	"github.com/classiflow/classiflow-go/internal/handler"
	"github.com/classiflow/classiflow-go/internal/middleware"
	"github.com/classiflow/classiflow-go/internal/repository"
	"github.com/classiflow/classiflow-go/internal/service"
	"github.com/classiflow/classiflow-go/internal/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	codec := crypto.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL)
	cookies := session.NewCookieManager(cfg.SecureCookies(), cfg.TokenTTL)

	completionHandler := handler.NewCompletionHandler(cfg.OpenRouterAPIKey, cfg.OpenRouterBaseURL, cfg.OpenRouterModel)

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Post("/api/v1/completions", completionHandler.HandleCompletion)

	// Initialize DB and account routes if database is available.
	slog.Info("connecting to database", "dsn", repository.RedactDSN(cfg.DatabaseDSN))
	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err == nil {
		err = repository.Migrate(cfg.DatabaseDSN, cfg.MigrationsPath)
	}
	if err != nil {
		slog.Warn("database unavailable — account routes disabled", "error", err)
	} else {
		userRepo := repository.NewUserRepository(db)
		authService := service.NewAuthService(userRepo, codec)
		authHandler := handler.NewAuthHandler(authService, cookies)
		userHandler := handler.NewUserHandler(authService, cookies)

		stepRepo := repository.NewStepRepository(db)
		stepService := service.NewStepService(stepRepo)
		stepsHandler := handler.NewStepsHandler(stepService)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(5, 10))
			r.Post("/api/v1/auth/signup", authHandler.HandleSignup)
			r.Post("/api/v1/auth/login", authHandler.HandleLogin)
		})

		r.Post("/api/v1/auth/logout", authHandler.HandleLogout)
		r.Get("/api/v1/auth/me", authHandler.HandleMe)
		r.Post("/api/v1/auth/profile", authHandler.HandleUpdateProfile)
		r.Post("/api/v1/auth/delete-account", authHandler.HandleDeleteAccount)

		r.Get("/api/v1/user", userHandler.HandleGet)
		r.Post("/api/v1/user", userHandler.HandlePost)
		r.Delete("/api/v1/user", userHandler.HandleDelete)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(cookies, codec))
			r.Put("/api/v1/organizations/{organization_id}/steps/2", stepsHandler.HandleSaveStep2)
			r.Get("/api/v1/organizations/{organization_id}/steps", stepsHandler.HandleResults)
		})
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
