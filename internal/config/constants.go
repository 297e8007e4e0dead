package config

import (
	"agrostats/pkg/contracts/domain"
)

// Application constants
const (
	AppName = "agrostats"

	DefaultSidraBaseURL = "https://apisidra.ibge.gov.br"

	// Municipal agricultural production (PAM), temporary crops.
	ProductionTableCode          = "1612"
	MunicipalityLevel            = "6"
	AllRegions                   = "all"
	TemporaryCropsClassification = "81"

	DefaultMaxAttempts = 3

	// LastPeriod asks the table for its most recent year.
	LastPeriod = "last"

	MinSupportedYear = 2021
	MaxSupportedYear = 2025
)

// Statistical variable codes of the production table.
const (
	VariablePlantedArea      = "109"
	VariableAverageYield     = "112"
	VariableQuantityProduced = "214"
	VariableProductionValue  = "215"
	VariableHarvestedArea    = "216"
)

// Variables lists the recognised variables of the production table.
var Variables = []domain.Variable{
	{Code: VariablePlantedArea, Name: "Área plantada", Unit: "Hectares"},
	{Code: VariableAverageYield, Name: "Rendimento médio da produção", Unit: "Quilogramas por Hectare"},
	{Code: VariableQuantityProduced, Name: "Quantidade produzida", Unit: "Toneladas"},
	{Code: VariableProductionValue, Name: "Valor da produção", Unit: "Mil Reais"},
	{Code: VariableHarvestedArea, Name: "Área colhida", Unit: "Hectares"},
}

// Crops is the fixed list of temporary crops served by the API.
var Crops = []domain.Crop{
	{Code: "2692", Name: "Arroz (em casca)"},
	{Code: "2696", Name: "Cana-de-açúcar"},
	{Code: "2702", Name: "Feijão (em grão)"},
	{Code: "2711", Name: "Milho (em grão)"},
	{Code: "2713", Name: "Soja (em grão)"},
	{Code: "2716", Name: "Trigo (em grão)"},
}

// AllowedVariableCodes returns the codes of Variables in declaration order.
func AllowedVariableCodes() []string {
	codes := make([]string, len(Variables))
	for i, v := range Variables {
		codes[i] = v.Code
	}
	return codes
}

// CropCodes returns the codes of Crops in declaration order.
func CropCodes() []string {
	codes := make([]string, len(Crops))
	for i, c := range Crops {
		codes[i] = c.Code
	}
	return codes
}
