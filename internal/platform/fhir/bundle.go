// Package fhir holds the minimal FHIR R4 resource subset this server emits:
// a collection Bundle wrapping a Patient and a Condition, plus
// OperationOutcome for errors. It is intentionally not a FHIR server; the
// EHR integration endpoint only hands records to downstream FHIR systems.
package fhir

import "encoding/json"

// Bundle represents a FHIR Bundle resource.
type Bundle struct {
	ResourceType string        `json:"resourceType"`
	Type         string        `json:"type"`
	Entry        []BundleEntry `json:"entry,omitempty"`
}

// BundleEntry wraps a single resource inside a Bundle.
type BundleEntry struct {
	FullURL  string          `json:"fullUrl,omitempty"`
	Resource json.RawMessage `json:"resource,omitempty"`
}

// NewCollectionBundle creates a collection Bundle from the given resources.
// Resources that fail to marshal are skipped; the caller controls the inputs
// so that only happens with unmarshalable custom types.
func NewCollectionBundle(resources ...interface{}) *Bundle {
	b := &Bundle{ResourceType: "Bundle", Type: "collection"}
	for _, r := range resources {
		raw, err := json.Marshal(r)
		if err != nil {
			continue
		}
		b.Entry = append(b.Entry, BundleEntry{Resource: raw})
	}
	return b
}

// HumanName is a FHIR HumanName element.
type HumanName struct {
	Use    string   `json:"use,omitempty"`
	Text   string   `json:"text,omitempty"`
	Family string   `json:"family,omitempty"`
	Given  []string `json:"given,omitempty"`
}

// Identifier is a FHIR Identifier element.
type Identifier struct {
	System string `json:"system,omitempty"`
	Value  string `json:"value"`
}

// Coding is a single code from a terminology system.
type Coding struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

// CodeableConcept is a FHIR CodeableConcept element.
type CodeableConcept struct {
	Coding []Coding `json:"coding,omitempty"`
	Text   string   `json:"text,omitempty"`
}

// Reference points at another resource.
type Reference struct {
	Reference string `json:"reference"`
}

// Patient is the minimal FHIR Patient resource this server produces.
type Patient struct {
	ResourceType string       `json:"resourceType"`
	ID           string       `json:"id,omitempty"`
	Identifier   []Identifier `json:"identifier,omitempty"`
	Name         []HumanName  `json:"name,omitempty"`
	Gender       string       `json:"gender,omitempty"`
	BirthDate    string       `json:"birthDate,omitempty"`
}

// Condition is the minimal FHIR Condition resource this server produces.
type Condition struct {
	ResourceType string          `json:"resourceType"`
	Code         CodeableConcept `json:"code"`
	Subject      Reference       `json:"subject"`
}
