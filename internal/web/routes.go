package web

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the configurator page, its assets and JSON API.
func RegisterRoutes(r chi.Router, h *Handler) {
	static, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}

	r.Get("/", h.Page)
	r.Post("/form", h.SubmitForm)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Route("/api", func(r chi.Router) {
		r.Get("/quote", h.Quote)
		r.Put("/formula", h.SetFormula)
		r.Post("/covers/{cover}/toggle", h.ToggleCover)
	})
}
