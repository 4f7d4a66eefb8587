package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"rcpro-configurator/internal/configurator"
	"rcpro-configurator/internal/pricing"
	"rcpro-configurator/internal/quote"
	"rcpro-configurator/internal/testutil"
	"rcpro-configurator/internal/web"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":{"coverageCeiling":500000,"deductible":250,"grossPremiums":{"legalExpenses":120.5}}}`)
	}))
	t.Cleanup(upstream.Close)

	client := pricing.NewClient(upstream.URL, "", 0)
	catalog := quote.DefaultCatalog()
	sessions := web.NewSessions(func() *configurator.Controller {
		return configurator.NewController(client, pricing.DefaultProfile(), catalog, configurator.LatestRequestWins)
	}, 0, 0)

	return NewRouter(web.NewHandler(sessions))
}

func TestNewRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	if body := w.Body.String(); body != "ok" {
		t.Fatalf("expected body %q, got %q", "ok", body)
	}
}

func TestNewRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/metrics", nil), router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	if !strings.Contains(w.Body.String(), "rcpro_web_sessions_active") {
		t.Fatal("expected sessions gauge in metrics output")
	}
}

func TestNewRouterQuoteSetsRequestIDHeader(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/quote", nil)
	w := testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	requestID := w.Result().Header.Get("X-Request-ID")
	if requestID == "" {
		t.Fatal("expected X-Request-ID header to be set")
	}
	if _, err := uuid.Parse(requestID); err != nil {
		t.Fatalf("expected valid UUID in X-Request-ID, got %q: %v", requestID, err)
	}

	var payload map[string]any
	testutil.DecodeJSONBody(t, w.Result().Body, &payload)

	if _, ok := payload["request_id"]; ok {
		t.Fatal("did not expect request_id field in JSON body")
	}
	if _, ok := payload["phase"]; !ok {
		t.Fatalf("expected phase in payload, got %#v", payload)
	}
}

func TestNewRouterRejectsInvalidTier(t *testing.T) {
	router := newTestRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPut, "/api/formula", web.FormulaRequest{Deductible: "3", Ceiling: "0"})
	w := testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)

	var payload map[string]string
	testutil.DecodeJSONBody(t, w.Result().Body, &payload)
	if !strings.Contains(payload["error"], "invalid deductible tier") {
		t.Fatalf("unexpected error %q", payload["error"])
	}
}
