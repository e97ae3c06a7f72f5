package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/saulo-duarte/learnpath-lambda/internal/activity"
	"github.com/saulo-duarte/learnpath-lambda/internal/auth"
	"github.com/saulo-duarte/learnpath-lambda/internal/config"
	"github.com/saulo-duarte/learnpath-lambda/internal/middlewares"
	"github.com/saulo-duarte/learnpath-lambda/internal/quiz"
	"github.com/saulo-duarte/learnpath-lambda/internal/user"
)

type RouterConfig struct {
	UserHandler     *user.Handler
	ActivityHandler *activity.Handler
	QuizHandler     *quiz.Handler
	AuthHandler     *auth.Handler

	// HealthCheck, when set, must succeed for /health to report ok.
	HealthCheck func(ctx context.Context) error
}

func New(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware)

	r.Get("/health", health(cfg.HealthCheck))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/logout", cfg.AuthHandler.Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Mount("/quiz", quiz.Routes(cfg.QuizHandler))
		r.Mount("/activities", activity.Routes(cfg.ActivityHandler))
		r.Mount("/users", user.Routes(cfg.UserHandler))
	})
	return r
}

func health(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				config.WithContext(r.Context()).WithError(err).Warn("Health check failed")
				config.Error(w, http.StatusServiceUnavailable, "unhealthy", "")
				return
			}
		}
		config.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
