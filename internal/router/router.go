package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-blog-api/internal/config"
	"go-blog-api/internal/handler"
	"go-blog-api/internal/middleware"
)

type Handlers struct {
	Auth *handler.AuthHandler
	Post *handler.PostHandler
	User *handler.UserHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, handlers Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", handlers.Auth.Login)
			auth.Post("/logout", handlers.Auth.Logout)
			auth.Post("/register", handlers.Auth.Register)
			auth.Post("/refresh", handlers.Auth.Refresh)
			auth.With(authMiddleware.RequireAuth).Get("/me", handlers.Auth.Me)
		})

		api.Get("/users/{id}", handlers.User.Get)

		api.Get("/posts", handlers.Post.List)
		api.Get("/posts/{id}", handlers.Post.Get)
		api.With(authMiddleware.RequireAuth).Post("/posts", handlers.Post.Create)
		api.With(authMiddleware.RequireAuth).Put("/posts/{id}", handlers.Post.Update)
		api.With(authMiddleware.RequireAuth).Delete("/posts/{id}", handlers.Post.Delete)
	})

	return r
}
