package quote

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Known cover identifiers returned by the pricing API.
const (
	AfterDelivery         = "afterDelivery"
	PublicLiability       = "publicLiability"
	ProfessionalIndemnity = "professionalIndemnity"
	EntrustedObjects      = "entrustedObjects"
	LegalExpenses         = "legalExpenses"
)

// CoverQuotes maps a cover identifier to its gross premium. A nil map means
// no quote has been received yet.
type CoverQuotes map[string]float64

// Selection is the set of covers the user has switched on. It may name
// covers that are absent from the current quote.
type Selection map[string]struct{}

// NewSelection returns a selection holding ids.
func NewSelection(ids ...string) Selection {
	s := make(Selection, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is selected.
func (s Selection) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Toggle returns a copy of s with id flipped. The receiver is not modified.
func (s Selection) Toggle(id string) Selection {
	out := s.Clone()
	if out.Has(id) {
		delete(out, id)
	} else {
		out[id] = struct{}{}
	}
	return out
}

// Clone returns an independent copy. A nil selection clones to an empty one.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// IDs returns the selected identifiers in sorted order.
func (s Selection) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Total sums the premiums of every selected cover present in quotes.
// Selected covers missing from quotes add nothing; nil quotes total 0.
// The sum is exact in decimal, so map iteration order never shows.
func Total(quotes CoverQuotes, covers Selection) float64 {
	total := decimal.Zero
	for id := range covers {
		if premium, ok := quotes[id]; ok {
			total = total.Add(decimal.NewFromFloat(premium))
		}
	}
	return total.InexactFloat64()
}
