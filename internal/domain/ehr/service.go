// Package ehr implements the EHR integration endpoint: it persists a patient
// record and emits a FHIR collection Bundle suitable for handing to a
// downstream FHIR system.
package ehr

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/ayushbridge/emr/internal/domain/patient"
	"github.com/ayushbridge/emr/internal/platform/fhir"
)

// Terminology systems stamped on Condition codings.
const (
	ICD11System   = "http://id.who.int/icd/release/11/mms"
	NamasteSystem = "https://namaste-ayush.gov.in/"
)

// IntegrationResponse pairs the stored record with its FHIR rendering.
type IntegrationResponse struct {
	Patient *patient.Patient `json:"patient"`
	FHIR    *fhir.Bundle     `json:"fhir"`
}

// Service builds FHIR bundles on top of the patient service.
type Service struct {
	patients *patient.Service
	log      zerolog.Logger
}

func NewService(patients *patient.Service, log zerolog.Logger) *Service {
	return &Service{patients: patients, log: log.With().Str("service", "ehr").Logger()}
}

// Integrate persists the patient and returns it together with its Bundle.
func (s *Service) Integrate(ctx context.Context, req patient.CreateRequest) (*IntegrationResponse, error) {
	p, err := s.patients.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	bundle := BundleFor(p)
	s.log.Info().
		Int64("patient_id", p.ID).
		Int("entries", len(bundle.Entry)).
		Msg("fhir bundle built")

	return &IntegrationResponse{Patient: p, FHIR: bundle}, nil
}

// BundleFor renders a stored patient as a FHIR collection Bundle. A Condition
// entry is included only when the record carries a diagnosis or a code.
func BundleFor(p *patient.Patient) *fhir.Bundle {
	id := strconv.FormatInt(p.ID, 10)

	fp := fhir.Patient{
		ResourceType: "Patient",
		ID:           id,
		Identifier: []fhir.Identifier{
			{System: "https://ayushbridge.example/patients", Value: id},
		},
		Name:   []fhir.HumanName{{Text: p.Name}},
		Gender: p.Gender,
	}

	var codings []fhir.Coding
	if p.ICD11Code != nil && *p.ICD11Code != "" {
		codings = append(codings, fhir.Coding{System: ICD11System, Code: *p.ICD11Code, Display: deref(p.Diagnosis)})
	}
	if p.NamasteCode != nil && *p.NamasteCode != "" {
		codings = append(codings, fhir.Coding{System: NamasteSystem, Code: *p.NamasteCode, Display: deref(p.Diagnosis)})
	}

	if len(codings) == 0 && deref(p.Diagnosis) == "" {
		return fhir.NewCollectionBundle(fp)
	}

	cond := fhir.Condition{
		ResourceType: "Condition",
		Code: fhir.CodeableConcept{
			Coding: codings,
			Text:   deref(p.Diagnosis),
		},
		Subject: fhir.Reference{Reference: fmt.Sprintf("Patient/%s", id)},
	}
	return fhir.NewCollectionBundle(fp, cond)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
