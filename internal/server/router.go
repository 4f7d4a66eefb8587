package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"rcpro-configurator/internal/handlers"
	"rcpro-configurator/internal/observability"
	"rcpro-configurator/internal/web"
)

func NewRouter(configurator *web.Handler) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	web.RegisterRoutes(r, configurator)

	return r
}
