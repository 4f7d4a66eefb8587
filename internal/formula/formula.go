package formula

import (
	"errors"
	"fmt"
	"strconv"
)

// Formula is a named tier sent to the pricing API.
type Formula string

const (
	Small  Formula = "small"
	Medium Formula = "medium"
	Large  Formula = "large"
)

// DeductibleTier is the deductible slider position (0, 1 or 2).
type DeductibleTier int

// CeilingTier is the coverage ceiling slider position (0 or 1).
type CeilingTier int

// ErrInvalidTier is wrapped by every tier rejection.
var ErrInvalidTier = errors.New("invalid tier")

// InvalidTierError describes a tier outside its enumerated domain.
type InvalidTierError struct {
	Kind  string
	Value string
}

func (e *InvalidTierError) Error() string {
	return fmt.Sprintf("invalid %s tier %q", e.Kind, e.Value)
}

func (e *InvalidTierError) Unwrap() error {
	return ErrInvalidTier
}

// MapDeductibleFormula maps a deductible tier to its formula.
func MapDeductibleFormula(tier DeductibleTier) (Formula, error) {
	switch tier {
	case 0:
		return Small, nil
	case 1:
		return Medium, nil
	case 2:
		return Large, nil
	default:
		return "", &InvalidTierError{Kind: "deductible", Value: strconv.Itoa(int(tier))}
	}
}

// MapCoverageCeilingFormula maps a coverage ceiling tier to its formula.
func MapCoverageCeilingFormula(tier CeilingTier) (Formula, error) {
	switch tier {
	case 0:
		return Small, nil
	case 1:
		return Large, nil
	default:
		return "", &InvalidTierError{Kind: "coverage ceiling", Value: strconv.Itoa(int(tier))}
	}
}

// ParseDeductibleTier parses the slider value "0", "1" or "2".
func ParseDeductibleTier(s string) (DeductibleTier, error) {
	switch s {
	case "0", "1", "2":
		return DeductibleTier(s[0] - '0'), nil
	default:
		return 0, &InvalidTierError{Kind: "deductible", Value: s}
	}
}

// ParseCeilingTier parses the slider value "0" or "1".
func ParseCeilingTier(s string) (CeilingTier, error) {
	switch s {
	case "0", "1":
		return CeilingTier(s[0] - '0'), nil
	default:
		return 0, &InvalidTierError{Kind: "coverage ceiling", Value: s}
	}
}

// Highest slider positions. Tiers start at 0.
const (
	MaxDeductibleTier DeductibleTier = 2
	MaxCeilingTier    CeilingTier    = 1
)

// Selection is the pair of tiers currently chosen by the user.
type Selection struct {
	Deductible DeductibleTier `json:"deductible"`
	Ceiling    CeilingTier    `json:"ceiling"`
}

// DefaultSelection matches the initial slider positions.
func DefaultSelection() Selection {
	return Selection{Deductible: 1, Ceiling: 1}
}

// Validate rejects selections containing a tier outside its domain.
func (s Selection) Validate() error {
	if _, err := MapDeductibleFormula(s.Deductible); err != nil {
		return err
	}
	if _, err := MapCoverageCeilingFormula(s.Ceiling); err != nil {
		return err
	}
	return nil
}

// Formulas returns the mapped deductible and coverage ceiling formulas.
func (s Selection) Formulas() (deductible, ceiling Formula, err error) {
	deductible, err = MapDeductibleFormula(s.Deductible)
	if err != nil {
		return "", "", err
	}
	ceiling, err = MapCoverageCeilingFormula(s.Ceiling)
	if err != nil {
		return "", "", err
	}
	return deductible, ceiling, nil
}
