package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/waitlist-be/internal/api/handlers"
	"github.com/isdelr/waitlist-be/internal/auth"
	"github.com/isdelr/waitlist-be/internal/services"
	"github.com/isdelr/waitlist-be/internal/websocket"
)

// Dependencies holds everything the router wires into handlers.
type Dependencies struct {
	Subscribers    *services.SubscriberService
	Admins         services.AdminServiceProvider
	Events         services.EventServiceProvider
	DB             handlers.Pinger
	Issuer         *auth.Issuer
	Notifier       handlers.Notifier
	Hub            *websocket.Hub
	RateLimiter    *handlers.RateLimiter
	AllowedOrigins []string
	SecureCookies  bool
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	var publisher handlers.Publisher
	if deps.Hub != nil {
		publisher = deps.Hub
	}
	subscribeHandler := handlers.NewSubscribeHandler(deps.Subscribers, deps.Notifier, publisher)
	authHandler := handlers.NewAuthHandler(deps.Admins, deps.Issuer, deps.SecureCookies)
	adminHandler := handlers.NewAdminHandler(deps.Subscribers)
	eventHandler := handlers.NewEventHandler(deps.Events)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Subscribers)

	limiter := deps.RateLimiter
	if limiter == nil {
		limiter = handlers.NewRateLimiter(0, 0)
	}

	r.Get("/healthz", healthHandler.Health)
	r.With(limiter.Middleware).Post("/subscribe", subscribeHandler.Subscribe)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(deps.Issuer.Middleware())

		r.Get("/subscribers", adminHandler.ListSubscribers)
		r.Get("/subscribers/export", adminHandler.Export)
		r.Get("/stats", adminHandler.Stats)
		r.Get("/dashboard", adminHandler.Dashboard)
		r.Get("/events", eventHandler.GetRecent)
		if deps.Hub != nil {
			r.Get("/ws", handlers.NewWebSocketHandler(deps.Hub, deps.AllowedOrigins).Serve)
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":"Not found"}`))
	})

	return r
}
