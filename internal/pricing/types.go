package pricing

import "rcpro-configurator/internal/quote"

// Profile holds the business fields sent with every quote request.
type Profile struct {
	AnnualRevenue    float64  `mapstructure:"annual_revenue"`
	EnterpriseNumber string   `mapstructure:"enterprise_number"`
	LegalName        string   `mapstructure:"legal_name"`
	NaturalPerson    bool     `mapstructure:"natural_person"`
	NacebelCodes     []string `mapstructure:"nacebel_codes"`
}

// DefaultProfile is the example company the configurator quotes for.
func DefaultProfile() Profile {
	return Profile{
		AnnualRevenue:    80000,
		EnterpriseNumber: "0649885171",
		LegalName:        "example SA",
		NaturalPerson:    true,
		NacebelCodes:     []string{"62010", "62020", "62030", "62090", "63110"},
	}
}

// Request is the JSON body posted to the pricing API.
type Request struct {
	AnnualRevenue          float64  `json:"annualRevenue"`
	EnterpriseNumber       string   `json:"enterpriseNumber"`
	LegalName              string   `json:"legalName"`
	NaturalPerson          bool     `json:"naturalPerson"`
	NacebelCodes           []string `json:"nacebelCodes"`
	CoverageCeilingFormula string   `json:"coverageCeilingFormula"`
	DeductibleFormula      string   `json:"deductibleFormula"`
}

// Quote is a decoded pricing response.
type Quote struct {
	Deductible      float64
	CoverageCeiling float64
	GrossPremiums   quote.CoverQuotes
}

// response mirrors the wire shape. Pointers let decode tell a missing field
// from a zero one.
type response struct {
	Data *struct {
		CoverageCeiling *float64           `json:"coverageCeiling"`
		Deductible      *float64           `json:"deductible"`
		GrossPremiums   map[string]float64 `json:"grossPremiums"`
	} `json:"data"`
}
