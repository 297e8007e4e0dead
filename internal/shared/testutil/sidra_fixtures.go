package testutil

// SidraHeader is the header row of a production table fetched with h/n.
var SidraHeader = []string{"NC", "NN", "MC", "MN", "V", "D1C", "D1N", "D2C", "D2N", "D3C", "D3N", "D4C", "D4N"}

// SidraRows returns two data rows aligned to SidraHeader: one complete
// observation and one with the "..." unavailable marker as value.
func SidraRows() [][]string {
	return [][]string{
		{"6", "Município", "1017", "Toneladas", "5400", "5200050", "Abadia de Goiás - GO", "2023", "2023", "214", "Quantidade produzida", "2711", "Milho (em grão)"},
		{"6", "Município", "1017", "Toneladas", "...", "5200100", "Abadiânia - GO", "2023", "2023", "214", "Quantidade produzida", "2711", "Milho (em grão)"},
	}
}

// SidraPayload is SidraHeader followed by SidraRows.
func SidraPayload() [][]string {
	return append([][]string{append([]string(nil), SidraHeader...)}, SidraRows()...)
}

// SidraJSON is the API body matching SidraPayload.
const SidraJSON = `[
{"NC":"6","NN":"Município","MC":"1017","MN":"Toneladas","V":"5400","D1C":"5200050","D1N":"Abadia de Goiás - GO","D2C":"2023","D2N":"2023","D3C":"214","D3N":"Quantidade produzida","D4C":"2711","D4N":"Milho (em grão)"},
{"NC":"6","NN":"Município","MC":"1017","MN":"Toneladas","V":"...","D1C":"5200100","D1N":"Abadiânia - GO","D2C":"2023","D2N":"2023","D3C":"214","D3N":"Quantidade produzida","D4C":"2711","D4N":"Milho (em grão)"}
]`
