package terminology

// ICD11Code represents a WHO ICD-11 entity, including Traditional Medicine
// Module 2 (TM2) pattern codes.
type ICD11Code struct {
	Code       string `db:"code" json:"code"`
	Title      string `db:"title" json:"title"`
	Definition string `db:"definition" json:"definition,omitempty"`
	Module     string `db:"module" json:"module"`
}

// NamasteCode represents a NAMASTE (National Ayush Morbidity and
// Standardized Terminologies Electronic) morbidity code.
type NamasteCode struct {
	Code       string `db:"code" json:"code"`
	Title      string `db:"title" json:"title"`
	Discipline string `db:"discipline" json:"discipline,omitempty"`
}

// MappingRequest is the POST /map_namaste request body.
type MappingRequest struct {
	NamasteCode string `json:"namaste_code"`
}

// MappingResponse is the POST /map_namaste success body.
type MappingResponse struct {
	NamasteCode string `json:"namaste_code"`
	ICD11Code   string `json:"icd11_code"`
}

// Module labels for ICD-11 entries.
const (
	ModuleMMS = "ICD-11"
	ModuleTM2 = "TM2"
)

// Discipline labels for NAMASTE entries.
const (
	DisciplineAyurveda = "ayurveda"
	DisciplineSiddha   = "siddha"
	DisciplineUnani    = "unani"
)
