// Package tui provides a live fleet dashboard over a kild home: a list of
// kilds with branch, status, runtime mode, and last activity. Outside the
// core lifecycle engine's scope (kild create/open/stop/destroy/... don't
// depend on it); a thin read-only consumer of kildstore session files.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kildhq/kild/internal/kildstore"
)

// refreshMsg triggers a reload of the session list.
type refreshMsg struct{}

func tick() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg { return refreshMsg{} })
}

// Model is the dashboard's bubbletea model.
type Model struct {
	sessionsDir string
	table       table.Model
	err         error
}

// New builds a dashboard over the sessions directory at sessionsDir
// (typically kildpaths.Paths.SessionsDir()).
func New(sessionsDir string) Model {
	columns := []table.Column{
		{Title: "Branch", Width: 30},
		{Title: "Status", Width: 10},
		{Title: "Runtime", Width: 10},
		{Title: "Agent", Width: 14},
		{Title: "Last Activity", Width: 20},
	}
	t := table.New(table.WithColumns(columns), table.WithFocused(true), table.WithHeight(12))
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).Foreground(colorAccent)
	s.Selected = selectedRowStyle
	t.SetStyles(s)
	return Model{sessionsDir: sessionsDir, table: t}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(loadSessions(m.sessionsDir), tick())
}

type sessionsLoadedMsg struct {
	sessions []*kildstore.Session
	err      error
}

func loadSessions(dir string) tea.Cmd {
	return func() tea.Msg {
		sessions, _, err := kildstore.LoadSessions(dir)
		return sessionsLoadedMsg{sessions: sessions, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "r":
			return m, loadSessions(m.sessionsDir)
		}
	case refreshMsg:
		return m, tea.Batch(loadSessions(m.sessionsDir), tick())
	case sessionsLoadedMsg:
		m.err = msg.err
		m.table.SetRows(rowsFor(msg.sessions))
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func rowsFor(sessions []*kildstore.Session) []table.Row {
	rows := make([]table.Row, 0, len(sessions))
	for _, s := range sessions {
		agent := "-"
		if len(s.Agents) > 0 {
			agent = s.Agents[len(s.Agents)-1].Agent
		}
		rows = append(rows, table.Row{
			s.Branch,
			string(s.Status),
			string(s.EffectiveRuntimeMode()),
			agent,
			s.LastActivity.Format("2006-01-02 15:04"),
		})
	}
	return rows
}

func (m Model) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("loading sessions: %v\n", m.err))
	}
	body := headerStyle.Render("kild fleet") + "\n" + m.table.View()
	return body + helpStyle.Render("\nr refresh · q quit")
}
