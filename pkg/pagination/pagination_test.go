package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/items"+query, nil)
	return FromContext(e.NewContext(req, httptest.NewRecorder()))
}

func TestFromContext(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Params
	}{
		// 10 per page matches the patient list default.
		{"defaults", "", Params{Skip: 0, Limit: 10}},
		{"explicit", "?skip=10&limit=5", Params{Skip: 10, Limit: 5}},
		{"limit clamped", "?limit=5000", Params{Skip: 0, Limit: MaxLimit}},
		{"negative skip", "?skip=-3", Params{Skip: 0, Limit: DefaultLimit}},
		{"zero limit", "?limit=0", Params{Skip: 0, Limit: DefaultLimit}},
		{"garbage", "?skip=abc&limit=xyz", Params{Skip: 0, Limit: DefaultLimit}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := paramsFor(t, tt.query); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNavigation(t *testing.T) {
	p := Params{Skip: 20, Limit: 10}

	if !p.HasNext(50) {
		t.Error("expected next page at 20/10 of 50")
	}
	if p.HasNext(30) {
		t.Error("expected no next page at 20/10 of 30")
	}
	if p.NextSkip() != 30 {
		t.Errorf("expected next skip 30, got %d", p.NextSkip())
	}
	if p.PreviousSkip() != 10 {
		t.Errorf("expected previous skip 10, got %d", p.PreviousSkip())
	}

	first := Params{Skip: 5, Limit: 10}
	if first.PreviousSkip() != 0 {
		t.Errorf("expected previous skip floored at 0, got %d", first.PreviousSkip())
	}
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	if got := Page(items, Params{Skip: 1, Limit: 2}); len(got) != 2 || got[0] != 2 {
		t.Errorf("unexpected page: %v", got)
	}
	if got := Page(items, Params{Skip: 10, Limit: 2}); len(got) != 0 {
		t.Errorf("expected empty page past the end, got %v", got)
	}
	if got := Page(items, Params{Skip: 0, Limit: 0}); len(got) != 5 {
		t.Errorf("expected zero limit to return all, got %v", got)
	}
}
