package configurator

import (
	"fmt"

	"rcpro-configurator/internal/formula"
	"rcpro-configurator/internal/pricing"
	"rcpro-configurator/internal/quote"
)

// Phase is the quote lifecycle: Idle → Loading → Loaded | Errored, back to
// Loading on every formula change.
type Phase int

const (
	Idle Phase = iota
	Loading
	Loaded
	Errored
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Errored:
		return "errored"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// StalePolicy decides what happens to a response that arrives after a newer
// request has been issued.
type StalePolicy int

const (
	// LatestRequestWins drops responses older than the latest request.
	LatestRequestWins StalePolicy = iota
	// LastResponseWins applies every response in arrival order.
	LastResponseWins
)

// ParseStalePolicy accepts "latest-request" and "last-response".
func ParseStalePolicy(s string) (StalePolicy, error) {
	switch s {
	case "", "latest-request":
		return LatestRequestWins, nil
	case "last-response":
		return LastResponseWins, nil
	default:
		return 0, fmt.Errorf("unknown stale policy %q", s)
	}
}

// State is everything a configurator front end needs to render.
type State struct {
	Formula formula.Selection
	Covers  quote.Selection

	Deductible      float64
	CoverageCeiling float64
	CoverQuotes     quote.CoverQuotes
	Error           bool
	Phase           Phase

	Policy StalePolicy
	// Issued is the sequence number of the most recent request, 0 before
	// the first one.
	Issued uint64
}

// NewState returns an idle state; no request has been issued yet.
func NewState(sel formula.Selection, covers quote.Selection, policy StalePolicy) State {
	return State{
		Formula: sel,
		Covers:  covers.Clone(),
		Phase:   Idle,
		Policy:  policy,
	}
}

// TierChanged applies a new formula selection. It reports whether a request
// must be issued: true when the selection differs from the current one or
// when nothing has been requested yet. The request sequence is s.Issued of
// the returned state. Cover quotes from the previous response are kept.
func TierChanged(s State, sel formula.Selection) (State, bool, error) {
	if err := sel.Validate(); err != nil {
		return s, false, err
	}
	if sel == s.Formula && s.Issued > 0 {
		return s, false, nil
	}

	s.Formula = sel
	s.Error = false
	s.Phase = Loading
	s.Issued++
	return s, true, nil
}

// Reloaded re-requests the current selection, as a fresh page load would.
func Reloaded(s State) State {
	s.Error = false
	s.Phase = Loading
	s.Issued++
	return s
}

// CoverToggled flips one cover in the selection.
func CoverToggled(s State, id string) State {
	s.Covers = s.Covers.Toggle(id)
	return s
}

// QuoteReceived replaces the quoted values with q.
func QuoteReceived(s State, seq uint64, q pricing.Quote) State {
	if s.stale(seq) {
		return s
	}

	s.Deductible = q.Deductible
	s.CoverageCeiling = q.CoverageCeiling
	s.CoverQuotes = q.GrossPremiums
	s.Error = false
	s.settle(seq, Loaded)
	return s
}

// QuoteFailed flags the error. Quoted values are left as they were.
func QuoteFailed(s State, seq uint64) State {
	if s.stale(seq) {
		return s
	}

	s.Error = true
	s.settle(seq, Errored)
	return s
}

// settle sets the phase from an applied response. An older response only
// moves the phase once the latest request has settled, so Phase and Error
// always agree outside of Loading.
func (s *State) settle(seq uint64, outcome Phase) {
	if seq == s.Issued || s.Phase != Loading {
		s.Phase = outcome
	}
}

func (s State) stale(seq uint64) bool {
	return s.Policy == LatestRequestWins && seq < s.Issued
}

// Total is the premium sum of the selected covers.
func (s State) Total() float64 {
	return quote.Total(s.CoverQuotes, s.Covers)
}
