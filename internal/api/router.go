package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hackgods/vet-appointments/internal/appointment"
	"github.com/hackgods/vet-appointments/internal/storage"
)

type RouterConfig struct {
	Controller  *appointment.Controller
	Provider    storage.Provider
	Gatherer    prometheus.Gatherer
	RateLimiter *RateLimiter
	Env         string
	Version     string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	health := NewHealthHandler(cfg.Provider, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/appointments", func(r chi.Router) {
		r.Get("/", listAppointmentsHandler(cfg.Controller))
		r.Get("/{id}", getAppointmentHandler(cfg.Controller))

		r.Group(func(r chi.Router) {
			if cfg.RateLimiter != nil {
				r.Use(RateLimitMiddleware(cfg.RateLimiter))
			}
			r.Post("/", createAppointmentHandler(cfg.Controller))
			r.Put("/{id}", updateAppointmentHandler(cfg.Controller))
			r.Delete("/{id}", deleteAppointmentHandler(cfg.Controller))
		})
	})

	return r
}
