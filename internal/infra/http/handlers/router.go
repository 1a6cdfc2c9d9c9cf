package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
)

type RouterConfig struct {
	Customers CustomerService
	Leads     LeadService
	Auth      AuthService
	Users     UserLookup
	Tokens    middleware.TokenValidator
	Health    *HealthHandler
	Log       logrus.FieldLogger

	// Latency is the simulated network delay applied to API routes.
	Latency        time.Duration
	FailureRate    float64
	AllowedOrigins []string
	LoginLimiter   *RateLimiter
	// TrustProxy installs chi's RealIP so RemoteAddr comes from proxy headers.
	TrustProxy bool
}

func NewRouter(cfg RouterConfig) http.Handler {
	customerHandler := NewCustomerHandler(cfg.Customers, cfg.Leads, cfg.Log)
	leadHandler := NewLeadHandler(cfg.Leads, cfg.Log)
	authHandler := NewAuthHandler(cfg.Auth, cfg.LoginLimiter, cfg.Log)
	validationHandler := NewValidationHandler(cfg.Users, cfg.Log)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.RequestLogger(&chimw.DefaultLogFormatter{Logger: cfg.Log, NoColor: true}))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	r.Use(middleware.Metrics)

	if cfg.Health != nil {
		r.Get("/health", cfg.Health.Handle)
	}
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Latency(cfg.Latency))
		r.Use(middleware.RandomFailure(cfg.FailureRate))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/register", authHandler.Register)
			r.Post("/logout", authHandler.Logout)
			if cfg.Users != nil {
				r.Post("/check-email", validationHandler.Email)
			}
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.Tokens, cfg.Log))

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", customerHandler.List)
				r.Post("/", customerHandler.Create)
				r.Get("/{id}", customerHandler.Get)
				r.Put("/{id}", customerHandler.Update)
				r.Delete("/{id}", customerHandler.Delete)
				r.Get("/{id}/leads", customerHandler.CustomerLeads)
			})

			r.Route("/leads", func(r chi.Router) {
				r.Get("/", leadHandler.List)
				r.Post("/", leadHandler.Create)
				r.Get("/{id}", leadHandler.Get)
				r.Put("/{id}", leadHandler.Update)
				r.Delete("/{id}", leadHandler.Delete)
			})

			r.Route("/validate", func(r chi.Router) {
				r.Post("/customer", validationHandler.Customer)
				r.Post("/lead", validationHandler.Lead)
			})
		})
	})

	return r
}
