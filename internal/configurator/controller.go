package configurator

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"rcpro-configurator/internal/formula"
	"rcpro-configurator/internal/observability"
	"rcpro-configurator/internal/pricing"
	"rcpro-configurator/internal/quote"
)

// Quoter fetches a premium quote. *pricing.Client implements it.
type Quoter interface {
	Quote(ctx context.Context, req pricing.Request) (pricing.Quote, error)
}

// Controller owns one configurator state and keeps it in step with the
// pricing API. Fetches run in the background; their failures end up in
// State.Error and are never returned to callers.
type Controller struct {
	quoter  Quoter
	profile pricing.Profile
	catalog *quote.Catalog

	mu    sync.Mutex
	state State

	inflight sync.WaitGroup
}

// NewController returns a controller in the Idle phase. Call Start to issue
// the first request.
func NewController(q Quoter, profile pricing.Profile, catalog *quote.Catalog, policy StalePolicy) *Controller {
	return &Controller{
		quoter:  q,
		profile: profile,
		catalog: catalog,
		state:   NewState(formula.DefaultSelection(), catalog.InitialSelection(), policy),
	}
}

// Start requests a quote for the current selection if none was requested yet.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Issued > 0 {
		return
	}
	// the current selection is always valid
	_ = c.applyFormula(ctx, c.state.Formula)
}

// SetFormula changes the tiers. An invalid tier is returned as an error and
// nothing is sent; an unchanged selection sends nothing either.
func (c *Controller) SetFormula(ctx context.Context, sel formula.Selection) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.applyFormula(ctx, sel)
}

// Reload issues a new request for the current selection whatever the phase.
func (c *Controller) Reload(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = Reloaded(c.state)
	// the current selection is always valid
	_ = c.issue(ctx)
}

// ToggleCover flips one cover. It never triggers a request.
func (c *Controller) ToggleCover(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = CoverToggled(c.state, id)
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Covers = s.Covers.Clone()
	return s
}

// View derives the current view model.
func (c *Controller) View() ViewModel {
	return View(c.Snapshot(), c.catalog)
}

// Wait blocks until every request issued so far has settled.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// applyFormula must be called with c.mu held.
func (c *Controller) applyFormula(ctx context.Context, sel formula.Selection) error {
	next, fetch, err := TierChanged(c.state, sel)
	if err != nil {
		return err
	}
	c.state = next
	if !fetch {
		return nil
	}
	return c.issue(ctx)
}

// issue sends a request for the current selection tagged with the current
// sequence number. c.mu must be held.
func (c *Controller) issue(ctx context.Context) error {
	req, err := pricing.NewRequest(c.profile, c.state.Formula)
	if err != nil {
		return err
	}

	seq := c.state.Issued
	// the request outlives the caller, e.g. an HTTP handler
	ctx = context.WithoutCancel(ctx)

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		c.fetch(ctx, seq, req)
	}()
	return nil
}

func (c *Controller) fetch(ctx context.Context, seq uint64, req pricing.Request) {
	q, err := c.quoter.Quote(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		observability.LoggerWithTrace(ctx).Warn("quote request failed",
			zap.Uint64("seq", seq),
			zap.String("deductible_formula", req.DeductibleFormula),
			zap.String("coverage_ceiling_formula", req.CoverageCeilingFormula),
			zap.Error(err),
		)
		c.state = QuoteFailed(c.state, seq)
		return
	}

	c.state = QuoteReceived(c.state, seq, q)
}
