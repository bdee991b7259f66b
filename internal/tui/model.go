// Package tui implements a read-only terminal browser for evaluation results.
package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/credit-limit-engine/internal/cli"
	"github.com/Veraticus/credit-limit-engine/internal/model"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultHeight = 20
	// title, status, detail and help lines around the table.
	chromeHeight = 8
)

var columns = []table.Column{
	{Title: "Cliente", Width: 14},
	{Title: "Score", Width: 6},
	{Title: "Decisión", Width: 38},
	{Title: "Límite actual", Width: 14},
	{Title: "Límite sugerido", Width: 16},
}

// Model is the bubbletea model of the results browser.
type Model struct {
	keys        KeyMap
	help        help.Model
	table       table.Model
	evaluations []model.Evaluation
	visible     []int
	filters     []model.Decision
	filter      int
	quitting    bool
}

// newModel creates a browser over the evaluations. The first filter shows
// every customer.
func newModel(evaluations []model.Evaluation) Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(defaultHeight),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(cli.PrimaryColor)
	t.SetStyles(styles)

	m := Model{
		keys:        DefaultKeyMap(),
		help:        help.New(),
		table:       t,
		evaluations: evaluations,
		filters:     append([]model.Decision{""}, model.Decisions()...),
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-chromeHeight, 3))
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Filter):
			m.filter = (m.filter + 1) % len(m.filters)
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(cli.FormatTitle("Análisis de crédito"))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(cli.SubtleStyle.Render(m.status()))
	b.WriteString("\n")
	b.WriteString(m.detail())
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// refresh rebuilds the table rows for the current filter.
func (m *Model) refresh() {
	want := m.filters[m.filter]
	m.visible = m.visible[:0]
	rows := make([]table.Row, 0, len(m.evaluations))
	for i, ev := range m.evaluations {
		if want != "" && ev.Decision != want {
			continue
		}
		m.visible = append(m.visible, i)
		rows = append(rows, row(ev))
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m Model) status() string {
	label := "Todas las decisiones"
	if d := m.filters[m.filter]; d != "" {
		label = string(d)
	}
	return fmt.Sprintf("Filtro: %s · %d de %d clientes", label, len(m.visible), len(m.evaluations))
}

// selected returns the evaluation under the cursor.
func (m Model) selected() (model.Evaluation, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.visible) {
		return model.Evaluation{}, false
	}
	return m.evaluations[m.visible[c]], true
}

func (m Model) detail() string {
	ev, ok := m.selected()
	if !ok {
		return ""
	}
	s := ev.Scores
	line := fmt.Sprintf("Uso %.1f · ADN %.1f · Variabilidad %.1f · DPP %.1f · Antigüedad %.1f · Vencido %.1f · Capacidad %.1f",
		s.Uso, s.ADN, s.Variabilidad, s.DPP, s.Antiguedad, s.Vencido, s.CapacidadPago)
	if ev.RecentlyModified && ev.DaysSinceModification != nil {
		line += fmt.Sprintf(" · modificado hace %d días", *ev.DaysSinceModification)
	}
	if ev.Decision.NeedsReview() {
		line += " · requiere revisión manual"
	}
	return line
}

func row(ev model.Evaluation) table.Row {
	score := "-"
	if ev.FinalScore != nil {
		score = fmt.Sprint(*ev.FinalScore)
	}
	return table.Row{
		ev.Customer.ID.String(),
		score,
		string(ev.Decision),
		cli.FormatValue(ev.Customer.CreditLimit.Number(0)),
		cli.FormatValue(ev.SuggestedLimit.InexactFloat64()),
	}
}
