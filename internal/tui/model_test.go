package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ayushbridge/emr/pkg/searchclient"
)

func TestModel_ViewIdle(t *testing.T) {
	m := New("http://localhost:8080/api/v1")

	view := m.View()
	if !strings.Contains(view, "Start typing") {
		t.Errorf("expected idle hint, got:\n%s", view)
	}
	if !strings.Contains(view, "MMS") {
		t.Errorf("expected module in title, got:\n%s", view)
	}
}

func TestModel_StateMsgSuccess(t *testing.T) {
	m := New("http://localhost:8080/api/v1")

	updated, _ := m.Update(stateMsg(searchclient.State{
		Phase: searchclient.PhaseSuccess,
		Query: "diabetes",
		Results: []searchclient.Result{
			{Code: "5A11", Title: "Type 2 diabetes mellitus"},
		},
		Meta: "Source: mock • 1 results",
	}))
	m = updated.(Model)

	view := m.View()
	if !strings.Contains(view, "5A11") || !strings.Contains(view, "Type 2 diabetes mellitus") {
		t.Errorf("expected result row, got:\n%s", view)
	}
	if !strings.Contains(view, "Source: mock • 1 results") {
		t.Errorf("expected meta line, got:\n%s", view)
	}
}

func TestModel_RendersDefinitionAndCachedMeta(t *testing.T) {
	m := New("http://localhost:8080/api/v1")

	updated, _ := m.Update(stateMsg(searchclient.State{
		Phase: searchclient.PhaseSuccess,
		Query: "diabetes",
		Results: []searchclient.Result{
			{
				Code:       "5A11",
				Title:      "Type 2 diabetes mellitus",
				Definition: "A metabolic disorder characterized by insulin resistance.",
			},
		},
		Meta: "Source: CACHE • 1 results • cached 2026-08-28T10:30:00Z",
	}))
	m = updated.(Model)

	view := m.View()
	if !strings.Contains(view, "insulin resistance") {
		t.Errorf("expected definition rendered under the title, got:\n%s", view)
	}
	if !strings.Contains(view, "cached 2026-08-28T10:30:00Z") {
		t.Errorf("expected cached timestamp in meta line, got:\n%s", view)
	}
}

func TestModel_StateMsgError(t *testing.T) {
	m := New("http://localhost:8080/api/v1")

	updated, _ := m.Update(stateMsg(searchclient.State{
		Phase: searchclient.PhaseError,
		Err:   "bad request",
	}))
	m = updated.(Model)

	if view := m.View(); !strings.Contains(view, "bad request") {
		t.Errorf("expected error message, got:\n%s", view)
	}
}

func TestModel_StateMsgEmptySuccess(t *testing.T) {
	m := New("http://localhost:8080/api/v1")

	updated, _ := m.Update(stateMsg(searchclient.State{
		Phase:   searchclient.PhaseSuccess,
		Query:   "zzz",
		Results: nil,
		Meta:    "Source: mock • 0 results",
	}))
	m = updated.(Model)

	if view := m.View(); !strings.Contains(view, "No results") {
		t.Errorf("expected empty-state text, got:\n%s", view)
	}
}

func TestModel_TabTogglesModule(t *testing.T) {
	m := New("http://localhost:8080/api/v1")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	if !strings.Contains(m.View(), "TM2") {
		t.Error("expected TM2 after first toggle")
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	if !strings.Contains(m.View(), "MMS") {
		t.Error("expected MMS after second toggle")
	}
}

func TestModel_EscQuits(t *testing.T) {
	m := New("http://localhost:8080/api/v1")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("expected tea.Quit, got %T", msg)
	}
}
