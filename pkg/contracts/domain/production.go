package domain

// ProductionQuery is a request for municipal crop production data. Each list
// holds raw user input; validation happens before any upstream call.
type ProductionQuery struct {
	Years     []string `json:"years"`
	Variables []string `json:"variables"`
	Products  []string `json:"products"`

	// Region optionally narrows the territorial scope to "all" or a list of
	// municipality codes. Empty keeps the configured scope.
	Region []string `json:"region,omitempty"`
}

// ValidationResult reports whether a ProductionQuery is acceptable and which
// of its entries passed. Errors holds one human readable message per problem,
// in the order problems were found.
type ValidationResult struct {
	Valid          bool     `json:"valid"`
	Errors         []string `json:"errors"`
	ValidYears     []string `json:"valid_years"`
	ValidVariables []string `json:"valid_variables"`
	ValidProducts  []string `json:"valid_products"`
	ValidRegion    string   `json:"valid_region,omitempty"`
}

// TableRequest is the parameter bundle sent to the statistics table API.
type TableRequest struct {
	TableCode          string `json:"table_code" validate:"required,numeric"`
	TerritorialLevel   string `json:"territorial_level" validate:"required"`
	IBGETerritorialIDs string `json:"ibge_territorial_code" validate:"required"`
	Variable           string `json:"variable" validate:"required"`
	Period             string `json:"period" validate:"required"`
	Classification     string `json:"classification" validate:"required"`
	Categories         string `json:"categories" validate:"required"`
	Header             string `json:"header" validate:"oneof=y n"`
}

// ProductionResponse is the body returned by the production endpoints.
type ProductionResponse struct {
	Records []map[string]any `json:"dados"`
	Count   int              `json:"count"`
}

// Crop is a temporary crop known to the upstream product classification.
type Crop struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Variable is a measured quantity available in the production table.
type Variable struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}
