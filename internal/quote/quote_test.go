package quote

import (
	"strings"
	"testing"
)

func TestTotal(t *testing.T) {
	quotes := CoverQuotes{"a": 10, "b": 20, "c": 30}

	tests := []struct {
		name   string
		quotes CoverQuotes
		covers Selection
		want   float64
	}{
		{name: "subset", quotes: quotes, covers: NewSelection("a", "c"), want: 40},
		{name: "unknown cover ignored", quotes: quotes, covers: NewSelection("a", "z"), want: 10},
		{name: "absent quotes", quotes: nil, covers: NewSelection("a", "b"), want: 0},
		{name: "empty selection", quotes: quotes, covers: NewSelection(), want: 0},
		{name: "nil selection", quotes: quotes, covers: nil, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Total(tc.quotes, tc.covers); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestTotalIndependentOfInsertionOrder(t *testing.T) {
	quotes := CoverQuotes{
		AfterDelivery:         101.37,
		PublicLiability:       212.11,
		ProfessionalIndemnity: 497.84,
		EntrustedObjects:      63.2,
		LegalExpenses:         188.09,
	}

	forward := NewSelection(AfterDelivery, PublicLiability, LegalExpenses)
	backward := NewSelection(LegalExpenses, PublicLiability, AfterDelivery)

	a, b := Total(quotes, forward), Total(quotes, backward)
	if a != b {
		t.Fatalf("expected equal totals, got %v and %v", a, b)
	}
}

func TestTotalSumsCentsExactly(t *testing.T) {
	quotes := CoverQuotes{"a": 0.1, "b": 0.2, "c": 0.7}

	if got := Total(quotes, NewSelection("a", "b")); got != 0.3 {
		t.Fatalf("expected 0.3, got %v", got)
	}
	if got := Total(quotes, NewSelection("a", "b", "c")); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
}

func TestSelectionToggleDoesNotMutateReceiver(t *testing.T) {
	s := NewSelection("a")

	on := s.Toggle("b")
	if !on.Has("a") || !on.Has("b") {
		t.Fatalf("expected a and b selected, got %v", on.IDs())
	}
	if s.Has("b") {
		t.Fatal("expected original selection to be unchanged")
	}

	off := on.Toggle("a")
	if off.Has("a") {
		t.Fatal("expected a to be toggled off")
	}
	if got := strings.Join(off.IDs(), ","); got != "b" {
		t.Fatalf("expected [b], got %q", got)
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	if len(c.Covers) != 5 {
		t.Fatalf("expected 5 covers, got %d", len(c.Covers))
	}

	sel := c.InitialSelection()
	if !sel.Has(ProfessionalIndemnity) || !sel.Has(LegalExpenses) || len(sel) != 2 {
		t.Fatalf("unexpected default selection %v", sel.IDs())
	}

	if !strings.HasPrefix(c.Description(AfterDelivery), "Covers damage arising after delivery") {
		t.Fatalf("unexpected description %q", c.Description(AfterDelivery))
	}
	if got := c.Description("unknown"); got != "" {
		t.Fatalf("expected empty description, got %q", got)
	}
}

func TestCatalogLines(t *testing.T) {
	c := DefaultCatalog()
	quotes := CoverQuotes{
		"zeta":        1,
		LegalExpenses: 12.5,
		AfterDelivery: 3,
		"alpha":       2,
	}

	lines := c.Lines(quotes, NewSelection(LegalExpenses, "alpha"))

	wantIDs := []string{AfterDelivery, LegalExpenses, "alpha", "zeta"}
	if len(lines) != len(wantIDs) {
		t.Fatalf("expected %d lines, got %d", len(wantIDs), len(lines))
	}
	for i, id := range wantIDs {
		if lines[i].ID != id {
			t.Fatalf("line %d: expected %q, got %q", i, id, lines[i].ID)
		}
	}

	legal := lines[1]
	if legal.Title != "Legal expenses" || legal.Cost != "12.50" || !legal.Selected {
		t.Fatalf("unexpected legal expenses line: %+v", legal)
	}
	if lines[0].Selected {
		t.Fatal("expected after delivery to be unselected")
	}

	if got := c.Lines(nil, NewSelection(LegalExpenses)); got != nil {
		t.Fatalf("expected no lines for absent quotes, got %+v", got)
	}
}

func TestReadCatalogRejectsDuplicates(t *testing.T) {
	doc := `
covers:
  - id: a
  - id: a
`
	if _, err := ReadCatalog(strings.NewReader(doc)); err == nil {
		t.Fatal("expected duplicate cover error")
	}

	if _, err := ReadCatalog(strings.NewReader("covers:\n  - description: x\n")); err == nil {
		t.Fatal("expected missing id error")
	}
}
