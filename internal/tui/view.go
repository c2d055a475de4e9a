package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chaisa2/student-productivity-help-app/internal/calendar"
	"github.com/chaisa2/student-productivity-help-app/internal/constants"
	"github.com/chaisa2/student-productivity-help-app/internal/timer"
	"github.com/chaisa2/student-productivity-help-app/internal/utils"
)

var tabTitles = map[constants.SessionState]string{
	constants.StateTimer:    "Timer",
	constants.StateTasks:    "Tasks",
	constants.StateHabits:   "Habits",
	constants.StateCalendar: "Calendar",
	constants.StateChat:     "Chat",
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateTimer:
		content = m.viewTimer()
	case constants.StateTasks:
		content = m.taskList.View()
	case constants.StateHabits:
		content = m.habitWeek.View()
	case constants.StateCalendar:
		content = m.viewCalendar()
	case constants.StateChat:
		content = m.chatView.View()
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	default:
		if m.form != nil {
			content = m.form.View()
		}
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		docStyle.Render(content),
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if m.inForm() || m.state == constants.StateConfirmDelete {
		active = m.previousState
	}
	var tabs []string
	for _, s := range constants.MainTabs {
		if s == active {
			tabs = append(tabs, activeTabStyle.Render(tabTitles[s]))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(tabTitles[s]))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return dangerStyle.Render("Error: " + m.err.Error())
	}
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	return ""
}

func (m Model) viewTimer() string {
	t := m.deps.Timer

	var sessions []string
	for _, s := range []timer.SessionType{timer.Focus, timer.ShortBreak, timer.LongBreak} {
		if s == t.Session() {
			sessions = append(sessions, activeTabStyle.Render(s.Label()))
		} else {
			sessions = append(sessions, inactiveTabStyle.Render(s.Label()))
		}
	}

	state := "Ready"
	switch t.State() {
	case timer.Running:
		state = "Running"
	case timer.Paused:
		state = "Paused"
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.JoinHorizontal(lipgloss.Top, sessions...),
		clockStyle.Render(t.Format()),
		m.progress.ViewAs(t.Progress()/100),
		"",
		mutedStyle.Render(fmt.Sprintf("%s | %d focus sessions completed", state, t.CompletedSessions())),
	)
}

func (m Model) viewCalendar() string {
	today := m.today()
	selected := utils.FormatDate(m.selectedDay)
	cells := calendar.MonthGrid(m.selectedDay.Year(), m.selectedDay.Month(), today)

	var b strings.Builder
	b.WriteString(headingStyle.Render(m.selectedDay.Format("January 2006")) + "\n")
	for _, wd := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		b.WriteString(mutedStyle.Render(fmt.Sprintf(" %-4s", wd)))
	}
	b.WriteString("\n")

	for i, c := range cells {
		mark := " "
		if len(m.deps.Calendar.EventsOn(c.Date)) > 0 {
			mark = "•"
		}
		cell := fmt.Sprintf(" %2d%s ", c.Day, mark)
		switch {
		case c.Date == selected:
			cell = selectedDayStyle.Render(cell)
		case c.IsToday:
			cell = todayStyle.Render(cell)
		case !c.InMonth:
			cell = outsideMonthStyle.Render(cell)
		}
		b.WriteString(cell)
		if i%7 == 6 {
			b.WriteString("\n")
		}
	}

	grid := b.String()
	side := m.viewUpcoming()
	top := grid
	if m.width >= 80 {
		top = lipgloss.JoinHorizontal(lipgloss.Top, grid, "    ", side)
	}
	return lipgloss.JoinVertical(lipgloss.Left, top, m.agenda.View())
}

func (m Model) viewUpcoming() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Upcoming") + "\n")
	upcoming := m.deps.Calendar.Upcoming(m.today())
	if len(upcoming) == 0 {
		b.WriteString(mutedStyle.Render("Nothing scheduled"))
		return b.String()
	}
	for _, e := range upcoming {
		when := e.Date
		if e.Time != "" {
			when += " " + e.Time
		}
		b.WriteString(mutedStyle.Render(when) + " " + e.Title + "\n")
	}
	return b.String()
}

func (m Model) viewConfirmDelete() string {
	prompt := "Are you sure?"
	if m.pendingDelete != nil {
		prompt = fmt.Sprintf("Are you sure you want to delete %s %q?", m.pendingDelete.kind, m.pendingDelete.label)
	}
	return lipgloss.Place(max(m.width-4, 0), max(m.height-chromeHeight-2, 0),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(prompt),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
