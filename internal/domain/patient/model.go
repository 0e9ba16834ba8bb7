package patient

import "time"

// Patient is a demo patient record with dual-coded diagnosis fields.
type Patient struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Age         int       `db:"age" json:"age"`
	Gender      string    `db:"gender" json:"gender"`
	Diagnosis   *string   `db:"diagnosis" json:"diagnosis,omitempty"`
	ICD11Code   *string   `db:"icd11_code" json:"icd11_code,omitempty"`
	NamasteCode *string   `db:"namaste_code" json:"namaste_code,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CreateRequest is the request body for creating a patient.
type CreateRequest struct {
	Name        string  `json:"name"`
	Age         int     `json:"age"`
	Gender      string  `json:"gender"`
	Diagnosis   *string `json:"diagnosis,omitempty"`
	ICD11Code   *string `json:"icd11_code,omitempty"`
	NamasteCode *string `json:"namaste_code,omitempty"`
}

// UpdateRequest carries partial updates; nil fields are left unchanged.
type UpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Age         *int    `json:"age,omitempty"`
	Gender      *string `json:"gender,omitempty"`
	Diagnosis   *string `json:"diagnosis,omitempty"`
	ICD11Code   *string `json:"icd11_code,omitempty"`
	NamasteCode *string `json:"namaste_code,omitempty"`
}

// ListFilter selects a page of patients, optionally by gender.
type ListFilter struct {
	Skip   int
	Limit  int
	Gender string
}

// Valid gender values, matching FHIR administrative-gender.
var validGenders = map[string]bool{
	"male":    true,
	"female":  true,
	"other":   true,
	"unknown": true,
}
