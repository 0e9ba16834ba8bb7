package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func testIssuer() *TokenIssuer {
	return NewTokenIssuer("test-secret-test-secret-test-secret", time.Hour)
}

// =========== TokenIssuer ===========

func TestTokenIssuer_RoundTrip(t *testing.T) {
	ti := testIssuer()
	token, err := ti.Issue("alice", []string{"admin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ti.Parse(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != "alice" {
		t.Errorf("expected subject alice, got %s", claims.Subject)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != "admin" {
		t.Errorf("unexpected roles: %v", claims.Roles)
	}
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	ti := NewTokenIssuer("test-secret-test-secret-test-secret", -time.Minute)
	token, err := ti.Issue("alice", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ti.Parse(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestTokenIssuer_RejectsWrongSecret(t *testing.T) {
	token, err := testIssuer().Issue("alice", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	other := NewTokenIssuer("a-completely-different-signing-key!!", time.Hour)
	if _, err := other.Parse(token); err == nil {
		t.Error("expected error for token signed with another key")
	}
}

func TestTokenIssuer_RejectsGarbage(t *testing.T) {
	if _, err := testIssuer().Parse("not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

// =========== UserStore ===========

func TestUserStore_Authenticate(t *testing.T) {
	s, err := NewSeededUserStore()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u, err := s.Authenticate("admin", "admin123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Username != "admin" {
		t.Errorf("expected admin, got %s", u.Username)
	}

	if _, err := s.Authenticate("admin", "wrong"); err == nil {
		t.Error("expected error for wrong password")
	}
	if _, err := s.Authenticate("nobody", "admin123"); err == nil {
		t.Error("expected error for unknown user")
	}
}

// =========== Middleware ===========

func TestMiddleware_ValidToken(t *testing.T) {
	ti := testIssuer()
	token, _ := ti.Issue("alice", []string{"physician"})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		if got := UserID(c.Request().Context()); got != "alice" {
			t.Errorf("expected user alice, got %q", got)
		}
		if roles := Roles(c.Request().Context()); len(roles) != 1 || roles[0] != "physician" {
			t.Errorf("unexpected roles: %v", roles)
		}
		return c.NoContent(http.StatusOK)
	}

	if err := Middleware(ti, nil)(handler)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := Middleware(testIssuer(), nil)(func(c echo.Context) error { return nil })(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestMiddleware_Skipper(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/health")

	skipper := func(c echo.Context) bool { return c.Path() == "/health" }
	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	if err := Middleware(testIssuer(), skipper)(handler)(c); err != nil {
		t.Fatalf("expected skipped route to pass, got %v", err)
	}
}

func TestRequireRole(t *testing.T) {
	ti := testIssuer()
	token, _ := ti.Issue("bob", []string{"nurse"})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	chain := Middleware(ti, nil)(RequireRole("admin")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}))
	err := chain(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for nurse on admin route, got %v", err)
	}
}

// =========== Login handler ===========

func TestLogin_Success(t *testing.T) {
	users, _ := NewSeededUserStore()
	h := NewHandler(users, testIssuer())

	body, _ := json.Marshal(LoginRequest{Username: "admin", Password: "admin123"})
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp TokenResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.TokenType != "bearer" {
		t.Errorf("expected token_type bearer, got %s", resp.TokenType)
	}
	if resp.AccessToken == "" {
		t.Error("expected an access token")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	users, _ := NewSeededUserStore()
	h := NewHandler(users, testIssuer())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"admin","password":"nope"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Login(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
