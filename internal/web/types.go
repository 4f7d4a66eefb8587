package web

// FormulaRequest is the JSON body for PUT /api/formula. Values are the slider
// positions as strings, "0".."2" for the deductible and "0".."1" for the
// ceiling.
type FormulaRequest struct {
	Deductible string `json:"deductible"`
	Ceiling    string `json:"ceiling"`
}
