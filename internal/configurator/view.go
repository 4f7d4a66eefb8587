package configurator

import (
	"strconv"

	"rcpro-configurator/internal/format"
	"rcpro-configurator/internal/quote"
)

// ErrorMessage is the only failure text users ever see.
const ErrorMessage = "Something went wrong, please refresh the page or try again later."

// ViewModel is the derived, display-ready form of a State.
type ViewModel struct {
	Phase           string       `json:"phase"`
	Loading         bool         `json:"loading"`
	Error           string       `json:"error,omitempty"`
	DeductibleTier  int          `json:"deductible_tier"`
	CeilingTier     int          `json:"ceiling_tier"`
	Deductible      string       `json:"deductible"`
	CoverageCeiling string       `json:"coverage_ceiling"`
	Covers          []quote.Line `json:"covers"`
	Selected        []string     `json:"selected"`
	Total           string       `json:"total"`
}

// View derives what a front end should show for s. On error nothing quoted
// is exposed, stale or not.
func View(s State, catalog *quote.Catalog) ViewModel {
	vm := ViewModel{
		Phase:          s.Phase.String(),
		DeductibleTier: int(s.Formula.Deductible),
		CeilingTier:    int(s.Formula.Ceiling),
		Selected:       s.Covers.IDs(),
	}

	if s.Error {
		vm.Error = ErrorMessage
		return vm
	}

	vm.Deductible = amount(s.Deductible)
	vm.CoverageCeiling = amount(s.CoverageCeiling)
	vm.Covers = catalog.Lines(s.CoverQuotes, s.Covers)
	vm.Loading = len(vm.Covers) == 0
	if s.CoverQuotes != nil {
		vm.Total = format.Currency(s.Total())
	}
	return vm
}

// amount renders deductible and ceiling the way the API sends them, without
// forcing decimals.
func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
