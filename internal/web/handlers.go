package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"rcpro-configurator/internal/formula"
	"rcpro-configurator/internal/handlers"
	"rcpro-configurator/internal/observability"
)

//go:embed templates static
var assets embed.FS

var page = template.Must(template.ParseFS(assets, "templates/index.html.tmpl"))

var tracer = otel.Tracer("web")

// Handler serves the configurator page and its JSON API.
type Handler struct {
	sessions *Sessions
}

func NewHandler(sessions *Sessions) *Handler {
	return &Handler{sessions: sessions}
}

// Page handles GET /. It issues the session's first quote request. With
// ?retry=1 it re-requests the current quote first, the equivalent of
// reloading the page after an error; a brand new session only starts.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	ctrl, created := h.sessions.Controller(w, r)

	if r.URL.Query().Get("retry") == "1" {
		if created {
			ctrl.Start(r.Context())
		} else {
			ctrl.Reload(r.Context())
			eventsCounter.Add(r.Context(), 1, metric.WithAttributes(attribute.String("event", "reloaded")))
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	ctrl.Start(r.Context())
	vm := ctrl.View()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Execute(w, vm); err != nil {
		observability.LoggerWithTrace(r.Context()).Error("rendering page", zap.Error(err))
	}
}

// Quote handles GET /api/quote. A caller without a session gets an idle
// view and a cookie; the first request goes out once the cookie comes back,
// so clients that drop cookies never reach the pricing API.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	ctrl, created := h.sessions.Controller(w, r)
	if !created {
		ctrl.Start(r.Context())
	}
	handlers.WriteJSON(w, http.StatusOK, ctrl.View())
}

// SetFormula handles PUT /api/formula. Invalid tiers are rejected with 400
// before anything reaches the pricing API.
func (h *Handler) SetFormula(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "web.set_formula")
	defer span.End()

	var req FormulaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "set_formula", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	sel, err := parseSelection(req.Deductible, req.Ceiling)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "set_formula", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(
		attribute.Int("formula.deductible_tier", int(sel.Deductible)),
		attribute.Int("formula.ceiling_tier", int(sel.Ceiling)),
	)

	ctrl, _ := h.sessions.Controller(w, r)
	if err := ctrl.SetFormula(ctx, sel); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "set_formula", err.Error(), err, http.StatusBadRequest, w)
		return
	}
	eventsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("event", "tier_changed")))

	handlers.WriteJSON(w, http.StatusOK, ctrl.View())
}

// ToggleCover handles POST /api/covers/{cover}/toggle
func (h *Handler) ToggleCover(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "cover")

	_, span := tracer.Start(ctx, "web.toggle_cover",
		trace.WithAttributes(attribute.String("cover.id", id)),
	)
	defer span.End()

	ctrl, _ := h.sessions.Controller(w, r)
	ctrl.ToggleCover(id)
	eventsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("event", "cover_toggled")))

	handlers.WriteJSON(w, http.StatusOK, ctrl.View())
}

// SubmitForm handles POST /form, the no-JavaScript path of the page: it
// applies the checked covers and slider positions, then redirects to /.
func (h *Handler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	ctx, span := tracer.Start(ctx, "web.submit_form")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "submit_form", "invalid form", err, http.StatusBadRequest, w)
		return
	}

	ctrl, _ := h.sessions.Controller(w, r)
	vm := ctrl.View()

	// only covers the page displayed have a checkbox
	checked := make(map[string]bool)
	for _, id := range r.PostForm["cover"] {
		checked[id] = true
	}
	for _, line := range vm.Covers {
		if line.Selected != checked[line.ID] {
			ctrl.ToggleCover(line.ID)
			eventsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("event", "cover_toggled")))
		}
	}

	if r.PostForm.Has("deductible") || r.PostForm.Has("ceiling") {
		deductible := r.PostForm.Get("deductible")
		if deductible == "" {
			deductible = fmt.Sprint(vm.DeductibleTier)
		}
		ceiling := r.PostForm.Get("ceiling")
		if ceiling == "" {
			ceiling = fmt.Sprint(vm.CeilingTier)
		}

		sel, err := parseSelection(deductible, ceiling)
		if err == nil {
			err = ctrl.SetFormula(ctx, sel)
		}
		if err != nil {
			observability.RecordError(ctx, span, logger, errorCounter, "submit_form", err.Error(), err, http.StatusBadRequest, w)
			return
		}
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func parseSelection(deductible, ceiling string) (formula.Selection, error) {
	d, err := formula.ParseDeductibleTier(deductible)
	if err != nil {
		return formula.Selection{}, err
	}
	c, err := formula.ParseCeilingTier(ceiling)
	if err != nil {
		return formula.Selection{}, err
	}
	return formula.Selection{Deductible: d, Ceiling: c}, nil
}
