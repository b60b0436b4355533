// Package router assembles the chi router for the REST API.
package router

import (
	"net/http"
	"time"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/adapter/http/handler"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/adapter/http/response"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/domain"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/middleware"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// Options carries the cross-cutting settings of the router.
type Options struct {
	ServiceName       string
	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequestTimeout    time.Duration
}

// Handlers groups the endpoint handlers mounted under /api.
type Handlers struct {
	Auth    *handler.AuthHandler
	Users   *handler.UserHandler
	Books   *handler.BookHandler
	Reviews *handler.ReviewHandler
	Health  *handler.HealthHandler
}

func New(
	opts Options,
	h Handlers,
	authenticator middleware.Authenticator,
	rs *response.Responder,
	m *metrics.MetricsManager,
	log *logger.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Tracing(opts.ServiceName))
	r.Use(middleware.RequestLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics(m))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.SecurityHeaders)
	if opts.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(opts.RequestTimeout))
	}

	authRequired := middleware.Authenticate(authenticator, rs)
	adminOnly := middleware.RequireRole(rs, domain.RoleAdmin)

	r.Route("/api", func(r chi.Router) {
		if opts.RateLimitRequests > 0 {
			r.Use(httprate.Limit(
				opts.RateLimitRequests,
				opts.RateLimitWindow,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, req *http.Request) {
					rs.JSON(w, http.StatusTooManyRequests, response.Envelope{
						Success: false,
						Error:   "Too many requests from this IP, please try again later",
					})
				}),
			))
		}

		r.Get("/health", h.Health.Live)
		r.Get("/health/ready", h.Health.Ready)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.With(authRequired).Post("/logout", h.Auth.Logout)
		})

		r.Route("/users", func(r chi.Router) {
			r.With(authRequired).Get("/profile", h.Users.GetProfile)
			r.With(authRequired).Put("/profile", h.Users.UpdateProfile)
			r.Get("/{id}", h.Users.GetUser)
		})

		r.Route("/books", func(r chi.Router) {
			r.Get("/", h.Books.List)
			r.Get("/featured", h.Books.Featured)
			r.Get("/{id}", h.Books.Get)

			r.Group(func(r chi.Router) {
				r.Use(authRequired, adminOnly)
				r.Post("/", h.Books.Create)
				r.Post("/bulk", h.Books.CreateMany)
				r.Put("/{id}", h.Books.Update)
				r.Delete("/{id}", h.Books.Delete)
				r.Post("/{id}/cover", h.Books.UploadCover)
			})
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", h.Reviews.List)
			r.Get("/book/{bookId}", h.Reviews.List)
			r.With(authRequired).Get("/user", h.Reviews.ListMine)
			r.Get("/{id}", h.Reviews.Get)

			r.Group(func(r chi.Router) {
				r.Use(authRequired)
				r.Post("/", h.Reviews.Create)
				r.Put("/{id}", h.Reviews.Update)
				r.Delete("/{id}", h.Reviews.Delete)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		rs.JSON(w, http.StatusNotFound, response.Envelope{Success: false, Error: "Route " + req.URL.Path + " not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		rs.JSON(w, http.StatusMethodNotAllowed, response.Envelope{Success: false, Error: "Method " + req.Method + " not allowed"})
	})
	return r
}

// NewServer wraps the router in an http.Server with conservative timeouts.
func NewServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
