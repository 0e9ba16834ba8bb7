// Package tui is the interactive terminal client for the search endpoint.
// Typing debounces through searchclient; results render as they arrive and
// stale responses never overwrite newer ones.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ayushbridge/emr/pkg/searchclient"
)

// stateMsg delivers a searchclient state change to the update loop.
type stateMsg searchclient.State

// Model is the bubbletea model for the search widget.
type Model struct {
	input  textinput.Model
	spin   spinner.Model
	styles *Styles
	client *searchclient.Client
	states chan searchclient.State
	state  searchclient.State
	width  int
}

// New creates the search widget against the given API base URL.
func New(baseURL string) Model {
	input := textinput.New()
	input.Placeholder = "Type to search ICD-11 codes..."
	input.Prompt = "? "
	input.Focus()
	input.CharLimit = 120

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	states := make(chan searchclient.State, 16)
	client := searchclient.New(baseURL, searchclient.WithOnState(func(s searchclient.State) {
		// Drop rather than block when the UI loop lags behind.
		select {
		case states <- s:
		default:
		}
	}))

	return Model{
		input:  input,
		spin:   spin,
		styles: NewStyles(),
		client: client,
		states: states,
		state:  searchclient.State{Phase: searchclient.PhaseIdle},
	}
}

func (m Model) waitForState() tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-m.states)
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForState())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case stateMsg:
		m.state = searchclient.State(msg)
		cmds := []tea.Cmd{m.waitForState()}
		if m.state.Phase == searchclient.PhaseLoading {
			cmds = append(cmds, m.spin.Tick)
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if m.state.Phase != searchclient.PhaseLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.client.Close()
			return m, tea.Quit
		case tea.KeyTab:
			m.toggleModule()
			return m, nil
		}
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.client.SetQuery(context.Background(), after)
	}
	return m, cmd
}

func (m *Model) toggleModule() {
	next := searchclient.DefaultModule
	if m.client.Module() == searchclient.DefaultModule {
		next = "TM2"
	}
	m.client.SetModule(next)
	if q := strings.TrimSpace(m.input.Value()); q != "" {
		m.client.SearchNow(context.Background(), q)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(fmt.Sprintf("ICD-11 Search [%s]", m.client.Module())))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch m.state.Phase {
	case searchclient.PhaseIdle:
		b.WriteString(m.styles.Dim.Render("Start typing to search."))
	case searchclient.PhaseLoading:
		b.WriteString(m.styles.Loading.Render(m.spin.View() + "Searching..."))
	case searchclient.PhaseError:
		b.WriteString(m.styles.Error.Render("Error: " + m.state.Err))
	case searchclient.PhaseSuccess:
		if len(m.state.Results) == 0 {
			b.WriteString(m.styles.Dim.Render("No results."))
		} else {
			for _, r := range m.state.Results {
				b.WriteString(m.styles.Code.Render(r.Code))
				b.WriteString("  " + r.Title + "\n")
				if r.Definition != "" {
					b.WriteString(m.styles.Dim.Render("      "+r.Definition) + "\n")
				}
			}
		}
		b.WriteString("\n")
		b.WriteString(m.styles.Dim.Render(m.state.Meta))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("tab: toggle MMS/TM2 • esc: quit"))
	return b.String()
}

// Run starts the widget in the alternate screen.
func Run(baseURL string) error {
	p := tea.NewProgram(New(baseURL), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
