package tasklist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chaisa2/student-productivity-help-app/internal/constants"
	"github.com/chaisa2/student-productivity-help-app/internal/models"
	"github.com/chaisa2/student-productivity-help-app/internal/tasks"
)

type AddTaskMsg struct{}

type DeleteTaskMsg struct {
	ID    string
	Title string
}

type EditTaskMsg struct {
	Task models.Task
}

type ToggleTaskMsg struct {
	ID string
}

// FilterChangedMsg asks the parent to reload the list for the new filters.
type FilterChangedMsg struct {
	Status   tasks.StatusFilter
	Category string
}

type Item struct {
	Task models.Task
}

func (i Item) Title() string {
	box := "[ ]"
	if i.Task.Completed {
		box = "[x]"
	}
	return box + " " + i.Task.Title
}

func (i Item) Description() string {
	parts := []string{string(i.Task.Category), string(i.Task.Priority) + " priority"}
	if i.Task.DueDate != nil {
		parts = append(parts, "due "+i.Task.DueDate.Format(constants.DateFormat))
	}
	return strings.Join(parts, " | ")
}

func (i Item) FilterValue() string { return i.Task.Title }

type KeyMap struct {
	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Toggle key.Binding
	Status   key.Binding
	Category key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "done/undo"),
		),
		Status: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle status"),
		),
		Category: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cycle category"),
		),
	}
}

var statusCycle = []tasks.StatusFilter{tasks.StatusAll, tasks.StatusActive, tasks.StatusCompleted}

func categoryCycle() []string {
	out := []string{tasks.CategoryAll}
	for _, c := range models.TaskCategories {
		out = append(out, string(c))
	}
	return out
}

type Model struct {
	list     list.Model
	keys     KeyMap
	status   tasks.StatusFilter
	category string
	stats    tasks.Stats
}

func New(items []models.Task, width, height int) Model {
	l := list.New(toItems(items), list.NewDefaultDelegate(), width, height)
	l.Title = "Tasks"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // We handle help globally in the main model
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Edit, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Edit, keys.Delete, keys.Status, keys.Category}
	}

	return Model{list: l, keys: keys, status: tasks.StatusAll, category: tasks.CategoryAll}
}

func toItems(ts []models.Task) []list.Item {
	items := make([]list.Item, len(ts))
	for i, t := range ts {
		items[i] = Item{Task: t}
	}
	return items
}

// SetTasks replaces the listed tasks, keeping the cursor in range.
func (m *Model) SetTasks(ts []models.Task, stats tasks.Stats) {
	m.list.SetItems(toItems(ts))
	m.stats = stats
}

// Status is the completion filter the list is showing.
func (m Model) Status() tasks.StatusFilter { return m.status }

// Category is the task category the list is showing, or tasks.CategoryAll.
func (m Model) Category() string { return m.category }

// Filtering reports whether the fuzzy filter input has focus.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddTaskMsg{} }
		case key.Matches(msg, m.keys.Edit):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return EditTaskMsg(i) }
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteTaskMsg{ID: i.Task.ID, Title: i.Task.Title} }
			}
		case key.Matches(msg, m.keys.Toggle):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return ToggleTaskMsg{ID: i.Task.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Status):
			for idx, s := range statusCycle {
				if s == m.status {
					m.status = statusCycle[(idx+1)%len(statusCycle)]
					break
				}
			}
			return m, m.filterChanged()
		case key.Matches(msg, m.keys.Category):
			cycle := categoryCycle()
			for idx, c := range cycle {
				if c == m.category {
					m.category = cycle[(idx+1)%len(cycle)]
					break
				}
			}
			return m, m.filterChanged()
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) filterChanged() tea.Cmd {
	m.list.ResetSelected()
	msg := FilterChangedMsg{Status: m.status, Category: m.category}
	return func() tea.Msg { return msg }
}

func (m Model) header() string {
	return fmt.Sprintf("%d of %d completed (%d%%) | showing %s | category %s",
		m.stats.Completed, m.stats.Total, m.stats.Percentage, m.status, m.category)
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return m.header() + "\n\n  No tasks yet.\n  Press 'a' to add one."
	}
	return m.header() + "\n" + m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height-1)
}
