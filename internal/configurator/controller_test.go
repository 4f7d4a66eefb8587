package configurator

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"rcpro-configurator/internal/formula"
	"rcpro-configurator/internal/observability"
	"rcpro-configurator/internal/pricing"
	"rcpro-configurator/internal/quote"
)

// fakeQuoter records requests and answers each one from a per-call channel
// so tests control the order responses arrive in.
type fakeQuoter struct {
	mu       sync.Mutex
	requests []pricing.Request
	replies  []chan reply
}

type reply struct {
	quote pricing.Quote
	err   error
}

func (f *fakeQuoter) Quote(ctx context.Context, req pricing.Request) (pricing.Quote, error) {
	f.mu.Lock()
	ch := make(chan reply, 1)
	f.requests = append(f.requests, req)
	f.replies = append(f.replies, ch)
	f.mu.Unlock()

	r := <-ch
	return r.quote, r.err
}

func (f *fakeQuoter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeQuoter) request(i int) pricing.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[i]
}

// answer replies to request i, waiting for it to have been issued.
func (f *fakeQuoter) answer(t *testing.T, i int, r reply) {
	t.Helper()
	for {
		f.mu.Lock()
		if i < len(f.replies) {
			ch := f.replies[i]
			f.mu.Unlock()
			ch <- r
			return
		}
		f.mu.Unlock()
		runtime.Gosched()
	}
}

// waitFor blocks until n requests have reached the quoter.
func (f *fakeQuoter) waitFor(n int) {
	for f.count() < n {
		runtime.Gosched()
	}
}

// settle answers request i and waits until the controller has applied it.
func settle(t *testing.T, c *Controller, f *fakeQuoter, i int, r reply) {
	t.Helper()
	f.answer(t, i, r)
	c.Wait()
}

func newTestController(policy StalePolicy) (*Controller, *fakeQuoter) {
	f := &fakeQuoter{}
	return NewController(f, pricing.DefaultProfile(), quote.DefaultCatalog(), policy), f
}

func TestControllerStartIssuesOneRequest(t *testing.T) {
	c, f := newTestController(LatestRequestWins)
	ctx := context.Background()

	c.Start(ctx)
	c.Start(ctx)

	if vm := c.View(); !vm.Loading {
		t.Fatalf("expected loading view before the first response, got %+v", vm)
	}

	settle(t, c, f, 0, reply{quote: sampleQuote(99)})

	if n := f.count(); n != 1 {
		t.Fatalf("expected 1 request, got %d", n)
	}
	req := f.request(0)
	if req.DeductibleFormula != "medium" || req.CoverageCeilingFormula != "large" {
		t.Fatalf("unexpected initial formulas %+v", req)
	}

	vm := c.View()
	if vm.Loading || vm.Phase != "loaded" {
		t.Fatalf("expected loaded view, got %+v", vm)
	}
}

func TestControllerCeilingChangeScenario(t *testing.T) {
	c, f := newTestController(LatestRequestWins)
	ctx := context.Background()

	if err := c.SetFormula(ctx, formula.Selection{Deductible: 1, Ceiling: 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	settle(t, c, f, 0, reply{quote: sampleQuote(30)})

	if err := c.SetFormula(ctx, formula.Selection{Deductible: 1, Ceiling: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.waitFor(2)
	if n := f.count(); n != 2 {
		t.Fatalf("expected exactly one new request, got %d total", n)
	}
	if got := f.request(1).CoverageCeilingFormula; got != "large" {
		t.Fatalf("expected coverageCeilingFormula large, got %q", got)
	}

	// quotes from the first response stay until the second one lands
	if got := c.Snapshot().CoverQuotes[quote.LegalExpenses]; got != 30 {
		t.Fatalf("expected prior quotes retained while loading, got %v", got)
	}

	settle(t, c, f, 1, reply{quote: sampleQuote(45)})
	if got := c.Snapshot().CoverQuotes[quote.LegalExpenses]; got != 45 {
		t.Fatalf("expected quotes replaced, got %v", got)
	}
}

func TestControllerFailureKeepsValuesAndLogs(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	oldLogger := observability.Logger
	observability.Logger = zap.New(core)
	t.Cleanup(func() { observability.Logger = oldLogger })

	c, f := newTestController(LatestRequestWins)
	ctx := context.Background()

	c.Start(ctx)
	settle(t, c, f, 0, reply{quote: sampleQuote(70)})

	if err := c.SetFormula(ctx, formula.Selection{Deductible: 2, Ceiling: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	settle(t, c, f, 1, reply{err: pricing.ErrNetwork})

	s := c.Snapshot()
	if !s.Error || s.Phase != Errored {
		t.Fatalf("expected errored state, got %+v", s)
	}
	if s.CoverQuotes[quote.LegalExpenses] != 70 {
		t.Fatalf("expected cover quotes untouched, got %v", s.CoverQuotes)
	}
	if vm := c.View(); vm.Error != ErrorMessage || vm.Covers != nil {
		t.Fatalf("expected only the error message, got %+v", vm)
	}

	entries := logs.All()
	if len(entries) != 1 || entries[0].Message != "quote request failed" {
		t.Fatalf("expected one failure log, got %+v", entries)
	}
}

func TestControllerRejectsInvalidTierWithoutRequest(t *testing.T) {
	c, f := newTestController(LatestRequestWins)

	err := c.SetFormula(context.Background(), formula.Selection{Deductible: 3, Ceiling: 0})
	if !errors.Is(err, formula.ErrInvalidTier) {
		t.Fatalf("expected ErrInvalidTier, got %v", err)
	}
	if n := f.count(); n != 0 {
		t.Fatalf("expected no request, got %d", n)
	}
}

func TestControllerToggleDoesNotFetch(t *testing.T) {
	c, f := newTestController(LatestRequestWins)
	ctx := context.Background()

	c.Start(ctx)
	settle(t, c, f, 0, reply{quote: sampleQuote(12)})

	c.ToggleCover(quote.AfterDelivery)
	c.ToggleCover(quote.LegalExpenses)

	if n := f.count(); n != 1 {
		t.Fatalf("expected toggles not to fetch, got %d requests", n)
	}

	vm := c.View()
	if vm.Total != "10.00" {
		t.Fatalf("expected total of after delivery only, got %q", vm.Total)
	}
}

func TestControllerDropsStaleResponse(t *testing.T) {
	c, f := newTestController(LatestRequestWins)
	ctx := context.Background()

	c.Start(ctx)
	if err := c.SetFormula(ctx, formula.Selection{Deductible: 0, Ceiling: 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.answer(t, 1, reply{quote: sampleQuote(2)})
	f.answer(t, 0, reply{quote: sampleQuote(1)})
	c.Wait()

	if got := c.Snapshot().CoverQuotes[quote.LegalExpenses]; got != 2 {
		t.Fatalf("expected newest request's quote, got %v", got)
	}
}

func TestControllerReloadAfterError(t *testing.T) {
	c, f := newTestController(LatestRequestWins)
	ctx := context.Background()

	c.Start(ctx)
	settle(t, c, f, 0, reply{err: pricing.ErrDecode})
	if !c.Snapshot().Error {
		t.Fatal("expected error after failed request")
	}

	c.Reload(ctx)
	if vm := c.View(); vm.Error != "" || !vm.Loading {
		t.Fatalf("expected loading view after reload, got %+v", vm)
	}

	settle(t, c, f, 1, reply{quote: sampleQuote(5)})
	first, second := f.request(0), f.request(1)
	if first.DeductibleFormula != second.DeductibleFormula || first.CoverageCeilingFormula != second.CoverageCeilingFormula {
		t.Fatalf("expected reload to resend the same formulas, got %+v then %+v", first, second)
	}
	if vm := c.View(); vm.Phase != "loaded" {
		t.Fatalf("expected loaded after reload, got %s", vm.Phase)
	}
}
