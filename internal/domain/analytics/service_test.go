package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ayushbridge/emr/internal/domain/patient"
)

func strPtr(s string) *string { return &s }

func seedRepo(t *testing.T, records []patient.CreateRequest) patient.Repository {
	t.Helper()
	repo := patient.NewMemoryRepository()
	svc := patient.NewService(repo, zerolog.Nop())
	for _, r := range records {
		if _, err := svc.Create(context.Background(), r); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return repo
}

func TestService_Summarize_Empty(t *testing.T) {
	svc := NewService(patient.NewMemoryRepository(), zerolog.Nop())

	s, err := svc.Summarize(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.TotalPatients != 0 {
		t.Errorf("expected 0 patients, got %d", s.TotalPatients)
	}
	if len(s.CommonConditions) != 0 {
		t.Errorf("expected no conditions, got %v", s.CommonConditions)
	}
	if s.MappingSuccessRate != 0 {
		t.Errorf("expected 0 rate, got %v", s.MappingSuccessRate)
	}
}

func TestService_Summarize(t *testing.T) {
	repo := seedRepo(t, []patient.CreateRequest{
		{Name: "A", Age: 40, Gender: "female", Diagnosis: strPtr("Diabetes"), NamasteCode: strPtr("NAM-AYU-001"), ICD11Code: strPtr("5A11")},
		{Name: "B", Age: 50, Gender: "male", Diagnosis: strPtr("Diabetes"), NamasteCode: strPtr("NAM-AYU-001"), ICD11Code: strPtr("5A11")},
		{Name: "C", Age: 35, Gender: "male", Diagnosis: strPtr("Migraine"), NamasteCode: strPtr("NAM-UNA-007")},
		{Name: "D", Age: 28, Gender: "female"},
	})
	svc := NewService(repo, zerolog.Nop())

	s, err := svc.Summarize(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.TotalPatients != 4 {
		t.Errorf("expected 4 patients, got %d", s.TotalPatients)
	}
	if len(s.CommonConditions) != 2 {
		t.Fatalf("expected 2 conditions, got %d", len(s.CommonConditions))
	}
	if s.CommonConditions[0].Diagnosis != "Diabetes" || s.CommonConditions[0].Count != 2 {
		t.Errorf("expected Diabetes x2 first, got %+v", s.CommonConditions[0])
	}
	// 2 of 3 NAMASTE-coded records also have an ICD-11 code.
	if s.MappingSuccessRate != 66.67 {
		t.Errorf("expected rate 66.67, got %v", s.MappingSuccessRate)
	}
}

func TestService_Summarize_TopFive(t *testing.T) {
	var records []patient.CreateRequest
	diagnoses := []string{"A", "B", "C", "D", "E", "F", "G"}
	for i, d := range diagnoses {
		for j := 0; j <= i; j++ {
			records = append(records, patient.CreateRequest{Name: "P", Age: 30, Gender: "male", Diagnosis: strPtr(d)})
		}
	}
	svc := NewService(seedRepo(t, records), zerolog.Nop())

	s, err := svc.Summarize(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.CommonConditions) != 5 {
		t.Fatalf("expected top 5 conditions, got %d", len(s.CommonConditions))
	}
	if s.CommonConditions[0].Diagnosis != "G" || s.CommonConditions[0].Count != 7 {
		t.Errorf("expected G x7 first, got %+v", s.CommonConditions[0])
	}
}

func TestHandler_Summary(t *testing.T) {
	repo := seedRepo(t, []patient.CreateRequest{
		{Name: "A", Age: 40, Gender: "female", Diagnosis: strPtr("Diabetes")},
	})
	h := NewHandler(NewService(repo, zerolog.Nop()))
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics", nil)
	rec := httptest.NewRecorder()
	if err := h.Summary(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var s Summary
	json.Unmarshal(rec.Body.Bytes(), &s)
	if s.TotalPatients != 1 {
		t.Errorf("expected 1 patient, got %d", s.TotalPatients)
	}
}
