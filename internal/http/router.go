package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robertarktes/lumiere-hotel/internal/config"
	"github.com/robertarktes/lumiere-hotel/internal/idempotency"
	"github.com/robertarktes/lumiere-hotel/internal/observability"
	"github.com/robertarktes/lumiere-hotel/internal/rateLimit"
)

func SetupRouter(h *Handlers, cfg *config.Config, logger observability.Logger, rl *rateLimit.RateLimiter, idemp *idempotency.Idempotency) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(logger))
	r.Use(TracingMiddleware)
	r.Use(MetricsMiddleware)
	r.Use(CORSMiddleware(cfg.CORSOrigins))

	r.Get("/health", h.Health)
	r.Get("/readyz", h.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Use(RateLimitMiddleware(rl, cfg.AuthRateLimit, cfg.RateWindow))
		r.Post("/sign-up", h.SignUp)
		r.Post("/login", h.Login)
	})

	r.Route("/rooms", func(r chi.Router) {
		r.Get("/", h.ListRooms)
		r.Get("/featured", h.FeaturedRooms)
		r.Get("/{id}", h.GetRoom)
		r.Get("/{id}/quote", h.QuoteRoom)
	})

	r.Route("/sessions/{sid}", func(r chi.Router) {
		r.Get("/filters", h.GetFilters)
		r.Patch("/filters", h.PatchFilters)
		r.Delete("/filters", h.ResetFilters)
		r.Get("/rooms", h.SessionRooms)
		r.Get("/draft", h.GetDraft)
		r.Put("/draft", h.PutDraft)
		r.Delete("/draft", h.ClearDraft)
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Use(JWTMiddleware(cfg.JWTSecret))
		r.With(IdempotencyMiddleware(idemp, logger)).Post("/", h.CreateBooking)
		r.Get("/", h.ListBookings)
		r.Get("/{id}", h.GetBooking)
		r.Post("/{id}/cancel", h.CancelBooking)
	})

	return r
}
