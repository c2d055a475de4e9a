package agenda

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chaisa2/student-productivity-help-app/internal/constants"
	"github.com/chaisa2/student-productivity-help-app/internal/models"
)

var (
	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(8)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)
)

type AddEventMsg struct {
	Date string
}

type EditEventMsg struct {
	Event models.Event
}

type DeleteEventMsg struct {
	ID    string
	Title string
}

type KeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "next event"),
		),
		Prev: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "prev event"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add event"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit event"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete event"),
		),
	}
}

// Model lists the events of one day.
type Model struct {
	viewport viewport.Model
	keys     KeyMap
	date     string
	events   []models.Event
	cursor   int
}

func New(width, height int) Model {
	return Model{
		viewport: viewport.New(width, height),
		keys:     DefaultKeyMap(),
	}
}

func (m Model) Keys() KeyMap { return m.keys }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Next):
			if m.cursor < len(m.events)-1 {
				m.cursor++
				m.Render()
			}
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			if m.cursor > 0 {
				m.cursor--
				m.Render()
			}
			return m, nil
		case key.Matches(msg, m.keys.Add):
			date := m.date
			return m, func() tea.Msg { return AddEventMsg{Date: date} }
		case key.Matches(msg, m.keys.Edit):
			if e, ok := m.Selected(); ok {
				return m, func() tea.Msg { return EditEventMsg{Event: e} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if e, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteEventMsg{ID: e.ID, Title: e.Title} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

// Selected is the event under the cursor.
func (m Model) Selected() (models.Event, bool) {
	if m.cursor < 0 || m.cursor >= len(m.events) {
		return models.Event{}, false
	}
	return m.events[m.cursor], true
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetDay shows events for date. The cursor resets when the day changes.
func (m *Model) SetDay(date string, events []models.Event) {
	if date != m.date {
		m.cursor = 0
	}
	m.date = date
	m.events = events
	if m.cursor >= len(events) {
		m.cursor = max(len(events)-1, 0)
	}
	m.Render()
}

func (m *Model) Render() {
	var b strings.Builder
	heading := m.date
	if d, err := time.Parse(constants.DateFormat, m.date); err == nil {
		heading = d.Format("Monday, January 2")
	}
	b.WriteString(titleStyle.Render(heading) + "\n")

	if len(m.events) == 0 {
		b.WriteString(detailStyle.Render("No events. Press 'a' to add one.") + "\n")
		m.viewport.SetContent(b.String())
		return
	}

	for i, e := range m.events {
		clock := e.Time
		if clock == "" {
			clock = "all day"
		}
		marker := "  "
		if i == m.cursor {
			marker = cursorStyle.Render("> ")
		}
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color.ANSI())).Render("●")
		line := fmt.Sprintf("%s%s %s %s %s\n",
			marker,
			timeStyle.Render(clock),
			dot,
			titleStyle.Render(e.Title),
			detailStyle.Render(fmt.Sprintf("%s, %dm", e.Category, e.Duration)),
		)
		b.WriteString(line)
		if e.Description != nil && *e.Description != "" {
			b.WriteString("           " + detailStyle.Render(*e.Description) + "\n")
		}
	}
	m.viewport.SetContent(b.String())
}
