package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/maksv/social-network-api/internal/api/handlers"
	"github.com/maksv/social-network-api/internal/api/middleware"
	"github.com/maksv/social-network-api/internal/service"
)

func NewRouter(services *service.Services) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(middleware.Recover)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Welcome to the Social Network API..."))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	userHandler := handlers.NewUserHandler(services.User)
	postHandler := handlers.NewPostHandler(services.Post)

	auth := middleware.Auth(services.Auth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/signin", authHandler.Signin)
			r.Post("/forgotpassword", authHandler.ForgotPassword)
			r.Post("/resetpassword", authHandler.ResetPassword)
			r.Post("/changepassword", authHandler.ChangePassword)
			r.Post("/sociallogin", authHandler.SocialLogin)
		})

		r.Route("/posts", func(r chi.Router) {
			// Public reads
			r.Get("/", postHandler.List)
			r.Get("/{id}", postHandler.Get)
			r.Get("/{id}/photo", postHandler.Photo)

			// Writes require a token
			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Post("/", postHandler.Create)
				r.Put("/{id}", postHandler.Update)
				r.Delete("/{id}", postHandler.Delete)
				r.Put("/{id}/like", postHandler.Like)
				r.Put("/{id}/unlike", postHandler.Unlike)
				r.Put("/{id}/comment", postHandler.Comment)
				r.Put("/{id}/uncomment", postHandler.Uncomment)
			})
		})

		r.Route("/users", func(r chi.Router) {
			// The avatar blob is public so image tags can reference it
			r.Get("/{id}/avatar", userHandler.Avatar)

			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Get("/", userHandler.List)
				r.Get("/{id}", userHandler.Get)
				r.Put("/{id}", userHandler.Update)
				r.Put("/{id}/follow", userHandler.Follow)
				r.Put("/{id}/unfollow", userHandler.Unfollow)
				r.Put("/{id}/changestatus/{status}", userHandler.ChangeStatus)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"payload":null,"message":"The requested resource not found"}`))
	})

	return r
}
