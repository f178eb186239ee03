package api

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/dmordi/habari-blog-be/docs" // swagger docs
	"github.com/dmordi/habari-blog-be/internal/api/handlers"
	"github.com/dmordi/habari-blog-be/internal/auth"
	"github.com/dmordi/habari-blog-be/internal/config"
	"github.com/dmordi/habari-blog-be/internal/mail"
	"github.com/dmordi/habari-blog-be/internal/rate"
	"github.com/dmordi/habari-blog-be/internal/services"
)

// Limits applied to the authentication endpoints.
const (
	authRateLimit  = 20
	authRateWindow = time.Minute
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	cfg *config.Config,
	tokens *auth.TokenService,
	mailer mail.Mailer,
	limiter rate.Limiter,
	userService services.UserServiceProvider,
	postService services.PostServiceProvider,
	categoryService services.CategoryServiceProvider,
	commentService services.CommentServiceProvider,
	subscriptionService services.SubscriptionServiceProvider,
	contactService services.ContactServiceProvider,
	habariService services.HabariServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Sender"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, tokens, mailer, cfg.BaseURL)
	userHandler := handlers.NewUserHandler(userService)
	postHandler := handlers.NewPostHandler(postService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	commentHandler := handlers.NewCommentHandler(commentService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)
	contactHandler := handlers.NewContactHandler(contactService)
	habariHandler := handlers.NewHabariHandler(habariService, cfg.HabariSenderID)

	guard := auth.Middleware(tokens, userService)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(rateLimit(limiter))
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(guard)
			r.Get("/{id}", userHandler.Get)
			r.Put("/{id}", userHandler.Update)
			r.Delete("/{id}", userHandler.Delete)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postHandler.GetAll)
			r.Get("/{id}", postHandler.Get)
			r.Get("/{id}/comments", commentHandler.ListForPost)
			r.Group(func(r chi.Router) {
				r.Use(guard)
				r.Post("/", postHandler.Create)
				r.Put("/{id}", postHandler.Update)
				r.Delete("/{id}", postHandler.Delete)
				r.Post("/{id}/comments", commentHandler.Create)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Use(guard)
			r.Put("/{id}", commentHandler.Update)
			r.Delete("/{id}", commentHandler.Delete)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", categoryHandler.Create)
			r.Get("/", categoryHandler.GetAll)
		})

		r.Route("/emails", func(r chi.Router) {
			r.Post("/", subscriptionHandler.Create)
			r.Get("/", subscriptionHandler.GetAll)
		})

		r.Route("/contactus", func(r chi.Router) {
			r.Post("/", contactHandler.Create)
			r.Get("/", contactHandler.GetAll)
		})

		r.Route("/habari", func(r chi.Router) {
			r.Post("/", habariHandler.Receive)
			r.Get("/", habariHandler.GetAll)
		})
	})

	return r
}

// rateLimit applies a fixed-window per-client limit, keyed by remote IP.
func rateLimit(limiter rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			if ok, retryAfter := limiter.Allow(ip, authRateLimit, authRateWindow); !ok {
				w.Header().Set("Retry-After", retryAfter.Round(time.Second).String())
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{"message": "too many requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
