package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/chaisa2/student-productivity-help-app/internal/chat"
	"github.com/chaisa2/student-productivity-help-app/internal/constants"
	"github.com/chaisa2/student-productivity-help-app/internal/logger"
	"github.com/chaisa2/student-productivity-help-app/internal/timer"
	"github.com/chaisa2/student-productivity-help-app/internal/tui/components/agenda"
	"github.com/chaisa2/student-productivity-help-app/internal/tui/components/chatview"
	"github.com/chaisa2/student-productivity-help-app/internal/tui/components/habitweek"
	"github.com/chaisa2/student-productivity-help-app/internal/tui/components/tasklist"
	"github.com/chaisa2/student-productivity-help-app/internal/utils"
)

const (
	chromeHeight = 5
	formWidth    = 60
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case tickMsg:
		m.onTick()
		return m, tick()

	case chatReplyMsg:
		return m.onChatReply(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(msg)
		return m, cmd

	case tasklist.AddTaskMsg:
		m.taskForm = taskFormFrom(nil)
		return m.openForm(constants.StateAddTask, newTaskForm(m.taskForm, "New task"))
	case tasklist.EditTaskMsg:
		m.editingID = msg.Task.ID
		m.taskForm = taskFormFrom(&msg.Task)
		return m.openForm(constants.StateEditTask, newTaskForm(m.taskForm, "Edit task"))
	case tasklist.ToggleTaskMsg:
		_, err := m.deps.Tasks.Toggle(msg.ID)
		m.report(err, "")
		m.refreshTasks()
		return m, nil
	case tasklist.DeleteTaskMsg:
		return m.confirmDelete("task", msg.ID, msg.Title), nil
	case tasklist.FilterChangedMsg:
		m.refreshTasks()
		return m, nil

	case habitweek.AddHabitMsg:
		m.habitForm = &HabitFormModel{}
		return m.openForm(constants.StateAddHabit, newHabitForm(m.habitForm))
	case habitweek.ToggleEntryMsg:
		_, err := m.deps.Habits.ToggleEntry(msg.ID, msg.Date)
		m.report(err, "")
		m.refreshHabits()
		return m, nil
	case habitweek.DeleteHabitMsg:
		return m.confirmDelete("habit", msg.ID, msg.Name), nil

	case agenda.AddEventMsg:
		m.eventForm = eventFormFrom(nil, msg.Date)
		return m.openForm(constants.StateAddEvent, newEventForm(m.eventForm, "New event"))
	case agenda.EditEventMsg:
		m.editingID = msg.Event.ID
		m.eventForm = eventFormFrom(&msg.Event, msg.Event.Date)
		return m.openForm(constants.StateEditEvent, newEventForm(m.eventForm, "Edit event"))
	case agenda.DeleteEventMsg:
		return m.confirmDelete("event", msg.ID, msg.Title), nil

	case chatview.SendMsg:
		return m.sendChat(msg.Text)
	case chatview.NewChatMsg:
		_, err := m.deps.Chats.NewSession()
		m.report(err, "")
		m.refreshChat()
		return m, nil
	case chatview.SwitchChatMsg:
		m.switchChat(msg.Delta)
		return m, nil
	case chatview.DeleteChatMsg:
		return m.confirmDelete("chat", msg.ID, msg.Title), nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.inForm() && m.form != nil {
		return m.updateForm(msg)
	}
	var cmd tea.Cmd
	m.chatView, cmd = m.chatView.Update(msg)
	return m, cmd
}

func (m *Model) resize() {
	h := max(m.height-chromeHeight, 3)
	w := max(m.width-4, 20)
	m.taskList.SetSize(w, h)
	m.agenda.SetSize(w, max(h-10, 3))
	m.chatView.SetSize(w, h)
	m.progress.Width = min(w, 50)
	if m.form != nil {
		m.form = m.form.WithWidth(min(w, formWidth))
	}
}

// report records the outcome of an action for the status line.
func (m *Model) report(err error, status string) {
	m.err = err
	m.status = status
	if err != nil {
		logger.Warn("TUI action failed", "error", err)
	}
}

func (m *Model) onTick() {
	t := m.deps.Timer
	finished := t.Session()
	if t.Tick(time.Second) {
		m.status = fmt.Sprintf("%s complete! Next: %s", finished.Label(), t.Session().Label())
		m.err = nil
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.inForm() {
		if key.Matches(msg, m.keys.Cancel) {
			m.closeForm()
			return m, nil
		}
		return m.updateForm(msg)
	}

	if m.state == constants.StateConfirmDelete {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.performDelete()
		case key.Matches(msg, m.keys.Deny):
			m.pendingDelete = nil
			m.state = m.previousState
		}
		return m, nil
	}

	// Text entry owns most keys on the chat tab and while filtering tasks
	typing := m.state == constants.StateChat ||
		(m.state == constants.StateTasks && m.taskList.Filtering())

	switch {
	case key.Matches(msg, m.keys.Tab) && !(m.state == constants.StateTasks && m.taskList.Filtering()):
		m.switchTab(1)
		return m, nil
	case key.Matches(msg, m.keys.ShiftTab):
		m.switchTab(-1)
		return m, nil
	case !typing && key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case !typing && key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateTimer:
		m.handleTimerKey(msg)
		if key.Matches(msg, m.keys.Settings) {
			m.timerForm = timerFormFrom(m.deps.Timer.Durations())
			return m.openForm(constants.StateTimerSettings, newTimerForm(m.timerForm))
		}
	case constants.StateTasks:
		m.taskList, cmd = m.taskList.Update(msg)
	case constants.StateHabits:
		m.habitWeek, cmd = m.habitWeek.Update(msg)
	case constants.StateCalendar:
		if m.handleCalendarKey(msg) {
			return m, nil
		}
		m.agenda, cmd = m.agenda.Update(msg)
	case constants.StateChat:
		m.chatView, cmd = m.chatView.Update(msg)
	}
	return m, cmd
}

func (m *Model) switchTab(delta int) {
	tabs := constants.MainTabs
	idx := 0
	for i, s := range tabs {
		if s == m.state {
			idx = i
			break
		}
	}
	m.state = tabs[(idx+delta+len(tabs))%len(tabs)]
	m.err = nil
	m.status = ""
}

func (m *Model) handleTimerKey(msg tea.KeyMsg) {
	t := m.deps.Timer
	switch {
	case key.Matches(msg, m.keys.StartPause):
		if t.State() == timer.Running {
			t.Pause()
		} else {
			t.Start()
		}
	case key.Matches(msg, m.keys.Reset):
		t.Reset()
	case key.Matches(msg, m.keys.Focus):
		t.Switch(timer.Focus)
	case key.Matches(msg, m.keys.ShortBreak):
		t.Switch(timer.ShortBreak)
	case key.Matches(msg, m.keys.LongBreak):
		t.Switch(timer.LongBreak)
	}
}

// handleCalendarKey moves the selected day. It reports whether msg was consumed.
func (m *Model) handleCalendarKey(msg tea.KeyMsg) bool {
	day := m.selectedDay
	switch {
	case key.Matches(msg, m.keys.PrevDay):
		day = day.AddDate(0, 0, -1)
	case key.Matches(msg, m.keys.NextDay):
		day = day.AddDate(0, 0, 1)
	case key.Matches(msg, m.keys.PrevWeek):
		day = day.AddDate(0, 0, -7)
	case key.Matches(msg, m.keys.NextWeek):
		day = day.AddDate(0, 0, 7)
	case key.Matches(msg, m.keys.PrevMonth):
		day = shiftMonth(day, -1)
	case key.Matches(msg, m.keys.NextMonth):
		day = shiftMonth(day, 1)
	case key.Matches(msg, m.keys.Today):
		day = m.today()
	default:
		return false
	}
	m.selectedDay = day
	m.refreshCalendar()
	return true
}

// shiftMonth moves d by n months, clamping the day to the target month's length.
func shiftMonth(d time.Time, n int) time.Time {
	first := time.Date(d.Year(), d.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	return time.Date(first.Year(), first.Month(), min(d.Day(), last), 0, 0, 0, 0, time.UTC)
}

func (m Model) openForm(state constants.SessionState, form *huh.Form) (tea.Model, tea.Cmd) {
	m.previousState = m.state
	m.state = state
	m.form = form.WithWidth(min(max(m.width-4, 20), formWidth))
	m.err = nil
	m.status = ""
	return m, m.form.Init()
}

func (m *Model) closeForm() {
	m.state = m.previousState
	m.form = nil
	m.taskForm = nil
	m.habitForm = nil
	m.eventForm = nil
	m.timerForm = nil
	m.editingID = ""
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	case huh.StateCompleted:
		m.submitForm()
		m.closeForm()
		return m, nil
	}
	return m, cmd
}

// submitForm saves the completed form for the current state.
func (m *Model) submitForm() {
	var err error
	switch m.state {
	case constants.StateAddTask:
		in, perr := m.taskForm.newTask()
		if err = perr; err == nil {
			_, err = m.deps.Tasks.Add(in)
		}
		m.report(err, "Added task: "+m.taskForm.Title)
		m.refreshTasks()
	case constants.StateEditTask:
		patch, perr := m.taskForm.patch()
		if err = perr; err == nil {
			_, err = m.deps.Tasks.Update(m.editingID, patch)
		}
		m.report(err, "Updated task: "+m.taskForm.Title)
		m.refreshTasks()
	case constants.StateAddHabit:
		_, err = m.deps.Habits.Add(m.habitForm.newHabit())
		m.report(err, "Added habit: "+m.habitForm.Name)
		m.refreshHabits()
	case constants.StateAddEvent:
		_, err = m.deps.Calendar.Add(m.eventForm.newEvent())
		m.report(err, "Added event: "+m.eventForm.Title)
		m.jumpTo(m.eventForm.Date)
	case constants.StateEditEvent:
		_, err = m.deps.Calendar.Update(m.editingID, m.eventForm.patch())
		m.report(err, "Updated event: "+m.eventForm.Title)
		m.jumpTo(m.eventForm.Date)
	case constants.StateTimerSettings:
		m.deps.Timer.SetDurations(m.timerForm.durations())
		m.report(nil, "Timer durations updated")
	}
}

// jumpTo selects date on the calendar when it parses.
func (m *Model) jumpTo(date string) {
	if d, err := utils.ParseDate(date); err == nil {
		m.selectedDay = d
	}
	m.refreshCalendar()
}

func (m Model) confirmDelete(kind, id, label string) Model {
	m.pendingDelete = &deleteTarget{kind: kind, id: id, label: label}
	m.previousState = m.state
	m.state = constants.StateConfirmDelete
	return m
}

func (m *Model) performDelete() {
	target := m.pendingDelete
	m.pendingDelete = nil
	m.state = m.previousState
	if target == nil {
		return
	}

	var err error
	switch target.kind {
	case "task":
		err = m.deps.Tasks.Delete(target.id)
		m.refreshTasks()
	case "habit":
		err = m.deps.Habits.Delete(target.id)
		m.refreshHabits()
	case "event":
		err = m.deps.Calendar.Delete(target.id)
		m.refreshCalendar()
	case "chat":
		err = m.deps.Chats.Delete(target.id)
		m.refreshChat()
	}
	m.report(err, fmt.Sprintf("Deleted %s: %s", target.kind, target.label))
}

func (m *Model) switchChat(delta int) {
	sessions := m.deps.Chats.Sessions()
	if len(sessions) == 0 {
		return
	}
	idx := 0
	activeID := m.deps.Chats.ActiveID()
	for i, s := range sessions {
		if s.ID == activeID {
			idx = i
			break
		}
	}
	next := sessions[(idx+delta+len(sessions))%len(sessions)]
	m.report(m.deps.Chats.SetActive(next.ID), "")
	m.refreshChat()
}

// sendChat records the user message now and asks the relay in a command.
func (m Model) sendChat(text string) (tea.Model, tea.Cmd) {
	if m.chatView.Waiting() {
		return m, nil
	}
	pending, err := m.deps.Chats.Begin(text)
	if err != nil {
		m.report(err, "")
		return m, nil
	}
	if pending == nil {
		return m, nil
	}
	m.refreshChat()
	spin := m.chatView.SetWaiting(true)
	return m, tea.Batch(spin, ask(m.deps.Relay, pending))
}

func ask(relay chat.Relay, p *chat.Pending) tea.Cmd {
	return func() tea.Msg {
		if relay == nil {
			return chatReplyMsg{pending: p, err: errors.New("no chat relay configured")}
		}
		reply, err := relay.Ask(context.Background(), p.Message, p.History)
		return chatReplyMsg{pending: p, reply: reply, err: err}
	}
}

func (m Model) onChatReply(msg chatReplyMsg) (tea.Model, tea.Cmd) {
	m.chatView.SetWaiting(false)
	_, err := m.deps.Chats.Finish(msg.pending, msg.reply, msg.err)
	if errors.Is(err, chat.ErrNotFound) {
		// the session was deleted while the reply was in flight
		err = nil
	}
	m.report(err, "")
	m.refreshChat()
	return m, nil
}
