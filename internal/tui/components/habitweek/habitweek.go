// Package habitweek renders the weekly habit grid with a movable cursor.
package habitweek

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chaisa2/student-productivity-help-app/internal/constants"
	"github.com/chaisa2/student-productivity-help-app/internal/habits"
	"github.com/chaisa2/student-productivity-help-app/internal/models"
)

const nameWidth = 20

var (
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	todayStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type AddHabitMsg struct{}

type DeleteHabitMsg struct {
	ID   string
	Name string
}

type ToggleEntryMsg struct {
	ID   string
	Date string
}

type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Toggle   key.Binding
	PrevWeek key.Binding
	NextWeek key.Binding
	Add      key.Binding
	Delete   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev habit")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next habit")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev day")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next day")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle day")),
		PrevWeek: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev week")),
		NextWeek: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next week")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add habit")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete habit")),
	}
}

type Model struct {
	keys     KeyMap
	habits   []models.Habit
	overview habits.Overview
	today    time.Time
	offset   int
	row      int
	col      int
}

func New() Model {
	return Model{keys: DefaultKeyMap(), col: -1}
}

func (m Model) Keys() KeyMap { return m.keys }

// Offset is the number of weeks shown before the current one, as a value <= 0.
func (m Model) Offset() int { return m.offset }

// SetHabits refreshes the grid. The day cursor starts on today.
func (m *Model) SetHabits(hs []models.Habit, overview habits.Overview, today time.Time) {
	m.habits = hs
	m.overview = overview
	m.today = today
	if m.row >= len(hs) {
		m.row = max(len(hs)-1, 0)
	}
	if m.col < 0 {
		m.col = int(today.Weekday())
	}
}

func (m Model) days() []habits.Day {
	return habits.WeekGrid(m.offset, m.today)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.row < len(m.habits)-1 {
			m.row++
		}
	case key.Matches(keyMsg, m.keys.Left):
		if m.col > 0 {
			m.col--
		}
	case key.Matches(keyMsg, m.keys.Right):
		if m.col < 6 {
			m.col++
		}
	case key.Matches(keyMsg, m.keys.PrevWeek):
		m.offset--
	case key.Matches(keyMsg, m.keys.NextWeek):
		// the future cannot be navigated to
		if m.offset < 0 {
			m.offset++
		}
	case key.Matches(keyMsg, m.keys.Add):
		return m, func() tea.Msg { return AddHabitMsg{} }
	case key.Matches(keyMsg, m.keys.Delete):
		if h, ok := m.selected(); ok {
			return m, func() tea.Msg { return DeleteHabitMsg{ID: h.ID, Name: h.Name} }
		}
	case key.Matches(keyMsg, m.keys.Toggle):
		h, ok := m.selected()
		if !ok {
			return m, nil
		}
		day := m.days()[m.col]
		if day.Disabled {
			return m, nil
		}
		return m, func() tea.Msg { return ToggleEntryMsg{ID: h.ID, Date: day.Date} }
	}
	return m, nil
}

func (m Model) selected() (models.Habit, bool) {
	if m.row < 0 || m.row >= len(m.habits) {
		return models.Habit{}, false
	}
	return m.habits[m.row], true
}

func (m Model) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Active: %d  Streak days: %d  Weekly avg: %d%%  Completions: %d\n\n",
		m.overview.ActiveHabits, m.overview.TotalStreaks, m.overview.WeeklyAverage, m.overview.TotalCompletions)

	days := m.days()
	title := "This week"
	if m.offset < 0 {
		title = "Week of " + days[0].Date
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-*s", nameWidth, title)))
	for _, d := range days {
		label := fmt.Sprintf(" %-3s ", d.Weekday)
		switch {
		case d.IsToday:
			label = todayStyle.Render(fmt.Sprintf(" %-3s ", strings.ToUpper(d.Weekday)))
		case d.Disabled:
			label = disabledStyle.Render(label)
		default:
			label = headerStyle.Render(label)
		}
		b.WriteString(label)
	}
	b.WriteString("\n")

	if len(m.habits) == 0 {
		b.WriteString("\n" + mutedStyle.Render("  No habits yet. Press 'a' to add one.") + "\n")
		return b.String()
	}

	for r, h := range m.habits {
		colour := lipgloss.NewStyle().Foreground(lipgloss.Color(h.Color.ANSI()))
		b.WriteString(colour.Render(fmt.Sprintf("%-*s", nameWidth, truncate(h.Name, nameWidth-1))))
		for c, d := range days {
			cell := "  ·  "
			if h.CompletedOn(d.Date) {
				cell = colour.Render("  ●  ")
			}
			if d.Disabled {
				cell = disabledStyle.Render("     ")
			}
			if r == m.row && c == m.col {
				cell = cursorStyle.Render(cell)
			}
			b.WriteString(cell)
		}
		fmt.Fprintf(&b, "  %s\n", mutedStyle.Render(fmt.Sprintf("%dd streak, %d%% (%d days)",
			habits.Streak(h, m.today),
			habits.CompletionRate(h, constants.DefaultCompletionWindowDays, m.today),
			constants.DefaultCompletionWindowDays)))
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
