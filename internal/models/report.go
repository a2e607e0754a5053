package models

// MissingEnvironment is one scheduled environment whose QR code was not read
// during a shift. JSON keys follow the published faltando.json.
type MissingEnvironment struct {
	Location    string `json:"Local Instalação"`
	AssetID     string `json:"Arvore Prisma4 / Pro"`
	Description string `json:"Descrição"`
	Shifts      string `json:"Turnos"`
}

// Cells returns the record fields in table column order.
func (m MissingEnvironment) Cells() []string {
	return []string{m.Location, m.AssetID, m.Description, m.Shifts}
}

// ShiftReport maps a shift name to its missing environments.
type ShiftReport map[string][]MissingEnvironment

// Missing returns the list for shift. An absent shift yields an empty,
// non-nil slice.
func (r ShiftReport) Missing(shift string) []MissingEnvironment {
	if list, ok := r[shift]; ok && list != nil {
		return list
	}
	return []MissingEnvironment{}
}

// Counts returns the number of missing environments per shift.
func (r ShiftReport) Counts() map[string]int {
	counts := make(map[string]int, len(r))
	for shift, list := range r {
		counts[shift] = len(list)
	}
	return counts
}
