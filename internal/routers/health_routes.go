package routers

import (
	"github.com/go-chi/chi/v5"

	"github.com/Wafi-Ahmad/Hirehub/internal/handlers"
	"github.com/Wafi-Ahmad/Hirehub/internal/metrics"
)

func HealthRoutes(router *chi.Mux, healthHandler *handlers.HealthHandler) {
	router.Get("/healthz", healthHandler.Healthz)
	router.Get("/readyz", healthHandler.Readyz)
	router.Handle("/metrics", metrics.Handler())
}
