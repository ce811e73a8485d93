package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/moim/ledger-notify/internal/application/notification"
	"github.com/moim/ledger-notify/internal/application/token"
	"github.com/moim/ledger-notify/internal/config"
	jwtinfra "github.com/moim/ledger-notify/internal/infrastructure/jwt"
	"github.com/moim/ledger-notify/internal/transport/http/handler"
	appmiddleware "github.com/moim/ledger-notify/internal/transport/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	NotificationRepo NotificationRepository
	PushTokenRepo    PushTokenRepository
	JWTProvider      *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Registration fires on every app start; 5 req/s with a burst of 10.
	registerRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	tokenSvc := token.NewService(deps.PushTokenRepo)
	notifSvc := notification.NewService(deps.NotificationRepo)

	healthH := handler.NewHealthHandler()
	tokenH := handler.NewTokenHandler(tokenSvc)
	notifH := handler.NewNotificationHandler(notifSvc)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)

		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(deps.JWTProvider))

			r.With(registerRL.Limit).Post("/push-tokens", tokenH.Register)
			r.Get("/notifications", notifH.ListUnread)
			r.Put("/notifications/{id}", notifH.MarkAsRead)
		})
	})

	return r
}
