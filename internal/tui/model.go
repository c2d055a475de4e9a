package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/chaisa2/student-productivity-help-app/internal/calendar"
	"github.com/chaisa2/student-productivity-help-app/internal/chat"
	"github.com/chaisa2/student-productivity-help-app/internal/constants"
	"github.com/chaisa2/student-productivity-help-app/internal/habits"
	"github.com/chaisa2/student-productivity-help-app/internal/models"
	"github.com/chaisa2/student-productivity-help-app/internal/tasks"
	"github.com/chaisa2/student-productivity-help-app/internal/timer"
	"github.com/chaisa2/student-productivity-help-app/internal/tui/components/agenda"
	"github.com/chaisa2/student-productivity-help-app/internal/tui/components/chatview"
	"github.com/chaisa2/student-productivity-help-app/internal/tui/components/habitweek"
	"github.com/chaisa2/student-productivity-help-app/internal/tui/components/tasklist"
	"github.com/chaisa2/student-productivity-help-app/internal/utils"
)

// Deps are the stores and services the TUI drives.
type Deps struct {
	Tasks    *tasks.Store
	Habits   *habits.Store
	Calendar *calendar.Store
	Chats    *chat.Store
	Relay    chat.Relay
	Timer    *timer.Timer
	Now      func() time.Time
	// MarkdownStyle is the glamour style for assistant replies; "" picks "dark".
	MarkdownStyle string
}

// deleteTarget is the record awaiting confirmation in StateConfirmDelete.
type deleteTarget struct {
	kind  string
	id    string
	label string
}

type Model struct {
	deps          Deps
	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model
	progress      progress.Model
	taskList      tasklist.Model
	habitWeek     habitweek.Model
	agenda        agenda.Model
	chatView      chatview.Model
	form          *huh.Form
	taskForm      *TaskFormModel
	habitForm     *HabitFormModel
	eventForm     *EventFormModel
	timerForm     *TimerFormModel
	editingID     string
	pendingDelete *deleteTarget
	selectedDay   time.Time
	status        string
	err           error
	quitting      bool
	width         int
	height        int
}

func NewModel(deps Deps) Model {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Timer == nil {
		deps.Timer = timer.New(timer.DefaultDurations())
	}
	style := deps.MarkdownStyle
	if style == "" {
		style = "dark"
	}

	m := Model{
		deps:      deps,
		state:     constants.StateTimer,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		progress:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		taskList:  tasklist.New(nil, 0, 0),
		habitWeek: habitweek.New(),
		agenda:    agenda.New(0, 0),
		chatView:  chatview.New(style),
	}
	m.selectedDay = m.today()
	m.refreshAll()
	return m
}

func (m Model) today() time.Time {
	return utils.DateOf(m.deps.Now())
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// chatReplyMsg carries the relay's answer back to the update loop.
type chatReplyMsg struct {
	pending *chat.Pending
	reply   string
	err     error
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.chatView.Init())
}

func (m *Model) refreshAll() {
	m.refreshTasks()
	m.refreshHabits()
	m.refreshCalendar()
	m.refreshChat()
}

func (m *Model) refreshTasks() {
	m.taskList.SetTasks(
		m.deps.Tasks.Filter(m.taskList.Status(), m.taskList.Category()),
		m.deps.Tasks.Stats(),
	)
}

func (m *Model) refreshHabits() {
	today := m.today()
	m.habitWeek.SetHabits(m.deps.Habits.All(), m.deps.Habits.Overview(today), today)
}

func (m *Model) refreshCalendar() {
	date := utils.FormatDate(m.selectedDay)
	m.agenda.SetDay(date, m.deps.Calendar.EventsOn(date))
}

func (m *Model) refreshChat() {
	sessions := m.deps.Chats.Sessions()
	active, ok := m.deps.Chats.Active()
	if !ok {
		m.chatView.SetSession(models.ChatSession{}, 0, len(sessions))
		return
	}
	index := 0
	for i, s := range sessions {
		if s.ID == active.ID {
			index = i
			break
		}
	}
	m.chatView.SetSession(active, index, len(sessions))
}

// inForm reports whether a huh form owns the keyboard.
func (m Model) inForm() bool {
	switch m.state {
	case constants.StateAddTask, constants.StateEditTask, constants.StateAddHabit,
		constants.StateAddEvent, constants.StateEditEvent, constants.StateTimerSettings:
		return true
	}
	return false
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateTimer:
		keys = append(keys, m.keys.StartPause, m.keys.Reset, m.keys.Settings)
	case constants.StateTasks:
		tk := tasklist.DefaultKeyMap()
		keys = append(keys, tk.Add, tk.Toggle, tk.Edit, tk.Delete)
	case constants.StateHabits:
		hk := m.habitWeek.Keys()
		keys = append(keys, hk.Toggle, hk.Add, hk.Delete)
	case constants.StateCalendar:
		ak := m.agenda.Keys()
		keys = append(keys, m.keys.PrevMonth, m.keys.NextMonth, ak.Add, ak.Delete)
	case constants.StateChat:
		ck := m.chatView.Keys()
		keys = []key.Binding{m.keys.Tab, ck.Send, ck.New, ck.Delete}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}

	var actions []key.Binding
	switch m.state {
	case constants.StateTimer:
		actions = []key.Binding{m.keys.StartPause, m.keys.Reset, m.keys.Focus, m.keys.ShortBreak, m.keys.LongBreak, m.keys.Settings}
	case constants.StateTasks:
		tk := tasklist.DefaultKeyMap()
		actions = []key.Binding{tk.Add, tk.Toggle, tk.Edit, tk.Delete, tk.Status}
	case constants.StateHabits:
		hk := m.habitWeek.Keys()
		actions = []key.Binding{hk.Up, hk.Down, hk.Left, hk.Right, hk.Toggle, hk.PrevWeek, hk.NextWeek, hk.Add, hk.Delete}
	case constants.StateCalendar:
		ak := m.agenda.Keys()
		actions = []key.Binding{m.keys.PrevDay, m.keys.NextDay, m.keys.PrevWeek, m.keys.NextWeek, m.keys.PrevMonth, m.keys.NextMonth, m.keys.Today, ak.Next, ak.Prev, ak.Add, ak.Edit, ak.Delete}
	case constants.StateChat:
		ck := m.chatView.Keys()
		actions = []key.Binding{ck.Send, ck.New, ck.Prev, ck.Next, ck.Delete}
	}

	return [][]key.Binding{global, actions}
}
