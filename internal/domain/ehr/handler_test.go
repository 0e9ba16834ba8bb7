package ehr

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestHandler_Integrate(t *testing.T) {
	h := NewHandler(newTestService())
	e := echo.New()

	body := `{"name":"Asha Rao","age":42,"gender":"female","diagnosis":"Type 2 diabetes mellitus","icd11_code":"5A11"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ehr_integration", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Integrate(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	var resp IntegrationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Patient == nil || resp.Patient.ID != 1 {
		t.Errorf("unexpected patient: %+v", resp.Patient)
	}
	if resp.FHIR == nil || len(resp.FHIR.Entry) != 2 {
		t.Errorf("unexpected bundle: %+v", resp.FHIR)
	}
}

func TestHandler_Integrate_Validation(t *testing.T) {
	h := NewHandler(newTestService())
	e := echo.New()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ehr_integration", strings.NewReader(`{"name":"","age":30,"gender":"male"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := h.Integrate(e.NewContext(req, rec))
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}
